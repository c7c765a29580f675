package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCSV(t *testing.T) {
	input := "id,lon,lat\np1,-77.0,38.9\np2,-76.9,38.8\n"
	headerCh := make(chan []string, 1)

	records, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	header := <-headerCh
	assert.Equal(t, []string{"id", "lon", "lat"}, header)

	var rows [][]string
	for rec := range records {
		rows = append(rows, rec)
	}
	require.NoError(t, <-errCh)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"p1", "-77.0", "38.9"}, rows[0])
	assert.Equal(t, []string{"p2", "-76.9", "38.8"}, rows[1])
}

func TestStreamCSVTrimAndComment(t *testing.T) {
	input := "# case extract 2020-03\np1 , -77.0 ,38.9\n"
	records, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Comment:   '#',
		TrimSpace: true,
	})

	var rows [][]string
	for rec := range records {
		rows = append(rows, rec)
	}
	require.NoError(t, <-errCh)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"p1", "-77.0", "38.9"}, rows[0])
}

func TestStreamCSVMalformed(t *testing.T) {
	input := "a,b\n\"unterminated\n"
	records, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})

	for range records {
	}
	err := <-errCh
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := "id,value\na,1\nb,2\n"
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "value"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"b", "2"}, rows[1])
}

func TestReadCSVEmpty(t *testing.T) {
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Empty(t, rows)
}
