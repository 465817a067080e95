// Command protracker decodes and plays a ProTracker ("M.K.") module file.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"github.com/nieware/protracker/audiosink"
	"github.com/nieware/protracker/internal/demo"
	"github.com/nieware/protracker/mod"
	"github.com/nieware/protracker/synth"
)

var logger = log.New(os.Stderr, "", 0)

const otoDrainFrames = 1024

func main() {
	var (
		wavPath  = pflag.String("wav", "", "render to a WAV file instead of playing live")
		soloList = pflag.String("solo", "", "comma-separated list of channels (0-3) to solo")
		dump     = pflag.Bool("dump", false, "print the decoded song before playing")
		infoOnly = pflag.Bool("info", false, "print the song summary and exit")
	)
	pflag.Parse()

	song, err := loadSong(pflag.Args())
	if err != nil {
		logger.Println(err)
		os.Exit(exitCodeFor(err))
	}

	if *dump {
		spew.Dump(song)
	}

	printSummary(song)
	if *infoOnly {
		return
	}

	solo, err := parseSolo(*soloList)
	if err != nil {
		logger.Println(err)
		os.Exit(1)
	}

	mixer := synth.NewMixer(song)
	mixer.SetSolo(solo)

	if *wavPath != "" {
		err = renderToWav(mixer, *wavPath)
	} else {
		err = playLive(mixer)
	}
	if err != nil {
		logger.Println(err)
		os.Exit(1)
	}
}

// loadSong decodes the .mod file named by args[0], or the bundled demo
// module if no file was given.
func loadSong(args []string) (*mod.Song, error) {
	if len(args) == 0 {
		song, err := demo.Load()
		if err != nil {
			return nil, fmt.Errorf("loading bundled demo module: %w", err)
		}
		return song, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	song, err := mod.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", args[0], err)
	}
	return song, nil
}

// exitCodeFor maps a load error to the CLI exit code: 1 for file-level
// failures, 2 for a module that was read but is truncated or not a
// supported format.
func exitCodeFor(err error) int {
	if errors.Is(err, mod.ErrUnsupportedFormat) || errors.Is(err, mod.ErrTruncatedModule) {
		return 2
	}
	return 1
}

func parseSolo(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	channels := make([]int, 0, len(parts))
	for _, p := range parts {
		ch, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid --solo channel %q: %w", p, err)
		}
		if ch < 0 || ch >= mod.NumChannels {
			return nil, fmt.Errorf("invalid --solo channel %d: must be 0-%d", ch, mod.NumChannels-1)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func printSummary(song *mod.Song) {
	used := 0
	for _, ins := range song.Instruments {
		if ins.HasWaveform() {
			used++
		}
	}
	fmt.Printf("%s (%s)\n", song.Title, song.FormatID)
	fmt.Printf("  %d orders, %d patterns, %d instruments in use\n", song.NumOrders, len(song.Patterns), used)
}

func playLive(mixer *synth.Mixer) error {
	sink, err := audiosink.NewOtoSink(mixer)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	defer sink.Close()

	for !sink.Done() {
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

func renderToWav(mixer *synth.Mixer, path string) error {
	buf := make([]int16, 0, synth.SampleRateHz*4*2)
	frame := make([]int16, otoDrainFrames*2)
	for {
		n, more := mixer.NextFrames(frame)
		buf = append(buf, frame[:n*2]...)
		if !more {
			break
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	sink := audiosink.NewWavSink(f, uint32(len(buf)/2))
	if _, err := sink.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
