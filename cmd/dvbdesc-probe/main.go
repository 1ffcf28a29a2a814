package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/k-danil/go-dvbdesc"
	"github.com/pkg/profile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	modeDescriptors = "descriptors"
	modeEIT         = "eit"
	modeLoop        = "loop"
	modeNIT         = "nit"
)

type flags struct {
	Flagset         *flag.FlagSet
	AllocationLimit int
	CPUProfiling    bool
	Debug           bool
	Hex             bool
	Input           string
	Mode            string
	ProfilePath     string
}

func newFlags() *flags {
	f := &flags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(&f.Input, "i", "", "the input path, stdin when empty")
	f.Flagset.StringVar(&f.Mode, "m", modeDescriptors, "how the input is laid out: descriptors, loop, nit or eit")
	f.Flagset.BoolVar(&f.Hex, "x", false, "the input is hex encoded, whitespace is ignored")
	f.Flagset.BoolVar(&f.Debug, "v", false, "enable debug logs")
	f.Flagset.IntVar(&f.AllocationLimit, "max-elements", 0, "the max number of elements a nested array may hold, 0 means unlimited")
	f.Flagset.BoolVar(&f.CPUProfiling, "cp", false, "if yes, cpu profiling is enabled")
	f.Flagset.StringVar(&f.ProfilePath, "pp", "", "the profile path")
	return f
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute returns the process exit code so that deferred calls run before exiting
func execute(args []string) int {
	// Flags
	f := newFlags()
	if err := f.Flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		return 1
	}

	// Logger
	c := zap.NewDevelopmentConfig()
	if !f.Debug {
		c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := c.Build()
	if err != nil {
		fmt.Printf("failed to build logger: %s\n", err)
		return 1
	}
	defer l.Sync() //nolint:errcheck

	// Profiling
	if f.CPUProfiling {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(f.ProfilePath), profile.NoShutdownHook).Stop()
	}

	if err = run(f, l, os.Stdout); err != nil {
		l.Error("decoding input failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(f *flags, l *zap.Logger, w io.Writer) (err error) {
	// Read input
	var bs []byte
	if bs, err = readInput(f.Input, f.Hex); err != nil {
		return
	}

	// Create decoder
	d := dvbdesc.NewDecoder(
		dvbdesc.DecoderOptLogger(l),
		dvbdesc.DecoderOptAllocationLimit(f.AllocationLimit),
	)

	// Decode
	switch f.Mode {
	case modeDescriptors, modeLoop:
		var dl *dvbdesc.DescriptorList
		var errDecode error
		if f.Mode == modeLoop {
			dl, _, errDecode = d.DecodeDescriptorLoop(bs)
		} else {
			dl, errDecode = d.DecodeDescriptors(bs)
		}
		defer dl.Release()
		logDecodeErrors(l, errDecode)
		err = dl.Print(w)
	case modeNIT:
		var n *dvbdesc.NITData
		var errDecode error
		if n, errDecode = d.ParseNITSection(bs); n == nil {
			err = errDecode
			return
		}
		defer n.Release()
		logDecodeErrors(l, errDecode)
		err = printNIT(w, n)
	case modeEIT:
		var e *dvbdesc.EITData
		var errDecode error
		if e, errDecode = d.ParseEITSection(bs); e == nil {
			err = errDecode
			return
		}
		defer e.Release()
		logDecodeErrors(l, errDecode)
		err = printEIT(w, e)
	default:
		err = fmt.Errorf("main: unknown mode %q", f.Mode)
	}
	return
}

func logDecodeErrors(l *zap.Logger, err error) {
	for _, e := range multierr.Errors(err) {
		l.Warn("descriptor decoding failed", zap.Error(e))
	}
}

func readInput(path string, isHex bool) (bs []byte, err error) {
	// Read
	if path == "" {
		bs, err = io.ReadAll(os.Stdin)
	} else {
		bs, err = os.ReadFile(path)
	}
	if err != nil {
		err = fmt.Errorf("main: reading input failed: %w", err)
		return
	}

	if !isHex {
		return
	}

	// Decode hex
	s := strings.Join(strings.Fields(string(bs)), "")
	if bs, err = hex.DecodeString(s); err != nil {
		err = fmt.Errorf("main: decoding hex input failed: %w", err)
	}
	return
}

func printNIT(w io.Writer, n *dvbdesc.NITData) error {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "NIT table 0x%02x network 0x%04x version %d section %d/%d\n",
		uint8(n.SectionHeader.TableID), n.NetworkID, n.SyntaxHeader.VersionNumber,
		n.SyntaxHeader.SectionNumber, n.SyntaxHeader.LastSectionNumber)
	errs := n.NetworkDescriptors.Print(buf)
	for _, ts := range n.TransportStreams {
		fmt.Fprintf(buf, "transport stream 0x%04x original network 0x%04x\n", ts.TransportStreamID, ts.OriginalNetworkID)
		errs = multierr.Append(errs, ts.TransportDescriptors.Print(buf))
	}
	if errs != nil {
		return errs
	}
	_, err := buf.WriteTo(w)
	return err
}

func printEIT(w io.Writer, e *dvbdesc.EITData) error {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "EIT table 0x%02x service 0x%04x transport stream 0x%04x original network 0x%04x\n",
		uint8(e.SectionHeader.TableID), e.ServiceID, e.TransportStreamID, e.OriginalNetworkID)
	var errs error
	for _, ev := range e.Events {
		fmt.Fprintf(buf, "event 0x%04x start %s duration %s running status %d\n",
			ev.EventID, ev.StartTime.Format(time.RFC3339), ev.Duration, ev.RunningStatus)
		errs = multierr.Append(errs, ev.Descriptors.Print(buf))
	}
	if errs != nil {
		return errs
	}
	_, err := buf.WriteTo(w)
	return err
}
