package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-xspec/internal/config"
	"github.com/cwbudde/algo-xspec/internal/session"
	"github.com/cwbudde/algo-xspec/internal/store"
	countstats "github.com/cwbudde/algo-xspec/stats/counts"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--log-mode", "nop"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func parseBinFlags(t *testing.T, args ...string) (*binFlags, *pflag.FlagSet) {
	t.Helper()
	f := &binFlags{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse(args))
	return f, fs
}

func TestVersion(t *testing.T) {
	orig := version
	version = "test-1.2.3"
	defer func() { version = orig }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "xbin version test-1.2.3")
}

func TestSubcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "counts", "plot", "list", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestBinFlagsMapping(t *testing.T) {
	f, fs := parseBinFlags(t,
		"--format", "generic",
		"--background", "bkg.pha",
		"--telescope", "ACIS",
		"--background-hdu", "2",
		"--max", "7",
		"--unit", "Angstrom",
		"--group", "mincounts",
		"--value", "25",
		"--bkgsub",
		"--backscal=false",
		"--store", "p.db",
	)
	cfg, err := f.config(fs, "src.pha")
	require.NoError(t, err)

	assert.Equal(t, config.Source{Path: "src.pha", Format: "generic", HDU: 1}, cfg.Source)
	require.NotNil(t, cfg.Background)
	assert.Equal(t, config.Background{Path: "bkg.pha", Telescope: "ACIS", HDU: 2}, *cfg.Background)
	require.NotNil(t, cfg.Notice)
	assert.Equal(t, config.Notice{Min: 0, Max: 7, Unit: "Angstrom"}, *cfg.Notice)
	assert.Equal(t, config.Grouping{Policy: config.PolicyMinCounts, Value: 25}, cfg.Grouping)
	assert.True(t, cfg.SubtractBackground)
	assert.False(t, cfg.UseBackscal)
	assert.Equal(t, "p.db", cfg.Store.Path)
}

func TestBinFlagsDefaults(t *testing.T) {
	f, fs := parseBinFlags(t)
	cfg, err := f.config(fs, "src.pha")
	require.NoError(t, err)

	assert.Nil(t, cfg.Background)
	assert.Nil(t, cfg.Notice, "no notice range without --min or --max")
	assert.Equal(t, config.PolicyNone, cfg.Grouping.Policy)
	assert.True(t, cfg.UseBackscal)
	assert.Empty(t, cfg.Store.Path)
}

func TestBinFlagsSubtractWithoutBackground(t *testing.T) {
	f, fs := parseBinFlags(t, "--bkgsub")
	cfg, err := f.config(fs, "src.pha")
	require.NoError(t, err)
	assert.True(t, cfg.SubtractBackground)
	assert.Nil(t, cfg.Background)
}

func TestBinFlagsInvalid(t *testing.T) {
	tests := [][]string{
		{"--group", "channels", "--value", "1"},
		{"--group", "adaptive"},
		{"--background", "b.pha", "--background-hdu", "-1"},
		{"--min", "1", "--unit", "parsec"},
		{"--format", "ogip"},
	}
	for _, args := range tests {
		f, fs := parseBinFlags(t, args...)
		_, err := f.config(fs, "src.pha")
		assert.ErrorIs(t, err, config.ErrInvalidConfig, strings.Join(args, " "))
	}
}

func TestCountsMissingFile(t *testing.T) {
	_, err := execute(t, "counts", filepath.Join(t.TempDir(), "missing.pha"))
	require.Error(t, err)
}

func TestCountsRequiresArgument(t *testing.T) {
	_, err := execute(t, "counts")
	require.Error(t, err)
}

func TestUnknownLogMode(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--log-mode", "loud", "version"})
	require.Error(t, root.Execute())
}

func TestPrintCounts(t *testing.T) {
	h := spectrum.Histogram{
		BinLo:  []float64{1, 2},
		BinHi:  []float64{2, 4},
		Counts: []float64{9, 16},
		Err:    []float64{3, 4},
		Unit:   units.KeV,
	}
	var buf bytes.Buffer
	require.NoError(t, printCounts(&buf, h, countstats.Calculate(h)))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "Lo [keV]")
	assert.Contains(t, lines[2], "16")
	assert.Contains(t, out, "2 bins, 25 counts, S/N 5")
}

func TestPrintSummary(t *testing.T) {
	id := uuid.New()
	res := session.Result{
		Channels:  100,
		Noticed:   40,
		Grouping:  "channels 4",
		Histogram: spectrum.Histogram{Unit: units.Angstrom},
		Stats:     countstats.Stats{BinCount: 10, Sum: 1234},
		PlotPath:  "counts.png",
		ProductID: id,
	}
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "channels 4")
	assert.Contains(t, out, "1234")
	assert.Contains(t, out, "counts.png")
	assert.Contains(t, out, id.String())
}

func TestListStoredProducts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	_, err = st.Save(context.Background(), store.Product{
		Source:   "obs.pha",
		Grouping: "mincounts 20",
		Histogram: spectrum.Histogram{
			BinLo: []float64{1}, BinHi: []float64{2},
			Counts: []float64{20}, Err: []float64{4.47},
			Unit: units.KeV,
		},
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "list", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "obs.pha")
	assert.Contains(t, out, "mincounts 20")
}
