// Command a2play is a minimal reference host: it opens an engine on the
// dummy audio driver, starts a single voice group, renders a fixed
// duration of (silent, until a patch is wired in) audio in memory and
// logs the frame count and peak level, exercising the public a2 façade
// end to end. It writes no file.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/olofson/audiality2-sub001/pkg/a2"
	"github.com/olofson/audiality2-sub001/pkg/a2log"
	"github.com/olofson/audiality2-sub001/pkg/a2util"
	"github.com/olofson/audiality2-sub001/pkg/engine"
)

func main() {
	var (
		sampleRate = flag.IntP("samplerate", "r", 44100, "sample rate in Hz")
		channels   = flag.IntP("channels", "c", 2, "output channel count")
		bufferSize = flag.IntP("buffer", "b", 1024, "frames per processing buffer")
		duration   = flag.Float64P("duration", "d", 1.0, "seconds to render")
		quiet      = flag.BoolP("quiet", "q", false, "suppress informational logging")
		configPath = flag.StringP("config", "f", "", "path to a YAML config file (overrides other flags)")
	)
	flag.Parse()

	var cfg a2.Config
	var err error
	if *configPath != "" {
		cfg, err = a2.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "a2play: loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = a2.DefaultConfig()
		cfg.Engine = engine.DefaultConfig(
			engine.WithSampleRate(*sampleRate),
			engine.WithChannels(*channels),
			engine.WithBufferSize(*bufferSize),
		)
	}

	logger := a2log.New()
	logger.SetSilent(*quiet)

	iface, st, err := a2.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "a2play: open: %v\n", err)
		os.Exit(1)
	}
	defer iface.Release()

	h, err := iface.NewGroup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "a2play: new group: %v\n", err)
		os.Exit(1)
	}
	if err := iface.Starta(h); err != nil {
		fmt.Fprintf(os.Stderr, "a2play: start: %v\n", err)
		os.Exit(1)
	}

	frames := int(*duration * float64(cfg.Engine.SampleRate))
	buffers := a2.RenderBuffers(st, frames)

	var peak float32
	for _, ch := range buffers {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	logger.Info("rendered %d frames across %d channels, peak %s", frames, len(buffers), a2util.FormatDb(float64(peak), 1))
}
