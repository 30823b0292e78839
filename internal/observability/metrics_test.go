package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordsRead.WithLabelValues("regulatory").Add(120)
	m.RecordsRead.WithLabelValues("internal").Add(45)
	m.RecordsExcluded.Inc()
	m.UnmappedValues.WithLabelValues("guild").Inc()
	m.RunDuration.Set(3.5)

	path := filepath.Join(t.TempDir(), "sub", "strikereport.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `strikereport_records_read_total{source="regulatory"} 120`)
	assert.Contains(t, text, `strikereport_records_read_total{source="internal"} 45`)
	assert.Contains(t, text, "strikereport_records_excluded_total 1")
	assert.Contains(t, text, `strikereport_unmapped_values_total{kind="guild"} 1`)
	assert.Contains(t, text, "strikereport_run_duration_seconds 3.5")
}

func TestWriteTextfile_FreshRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetrics()
	b := NewMetrics()
	a.TransformErrors.Inc()
	b.TransformErrors.Inc()

	path := filepath.Join(t.TempDir(), "a.prom")
	require.NoError(t, a.WriteTextfile(path))
}
