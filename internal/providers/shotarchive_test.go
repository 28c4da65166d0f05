package providers

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const archiveCSV = `GAME_ID,PLAYER_ID,PLAYER_NAME,ACTION_TYPE,SHOT_TYPE,SHOT_ZONE_BASIC,SHOT_ZONE_AREA,SHOT_MADE_FLAG,LOC_X,LOC_Y
0022400001,1,Shooter,Jump Shot,3PT Field Goal,Above the Break 3,Center(C),1,12,255
0022400001,2,Big Man,Dunk Shot,2PT Field Goal,Restricted Area,Center(C),1.0,-3,4
`

// buildArchive packs a CSV into a tar.xz stream the way the season
// archive publishes datasets.
func buildArchive(t *testing.T, csvName, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	require.NoError(t, err)

	tw := tar.NewWriter(xzw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: csvName,
		Mode: 0o644,
		Size: int64(len(content)),
	}))
	_, err = tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, xzw.Close())

	return buf.Bytes()
}

func TestParseArchiveReadsDatasetCSV(t *testing.T) {
	archive := buildArchive(t, "shotdetail_2024.csv", archiveCSV)
	client := NewShotArchiveClient("http://unused", t.TempDir(), logrus.New())

	shots, err := client.parseArchive(bytes.NewReader(archive), "shotdetail_2024", 2024)
	require.NoError(t, err)

	require.Len(t, shots, 2)
	assert.Equal(t, 2024, shots[0].Season)
	assert.Equal(t, 1, shots[0].PlayerID)
	assert.Equal(t, 3, shots[0].PointValue)
	assert.True(t, shots[0].Made)
	assert.Equal(t, -12, shots[0].LocX)

	// Float-formatted integers still parse.
	assert.Equal(t, 2, shots[1].PlayerID)
	assert.True(t, shots[1].Made)
	assert.Equal(t, 3, shots[1].LocX)
}

func TestParseArchiveMissingCSV(t *testing.T) {
	archive := buildArchive(t, "something_else.csv", archiveCSV)
	client := NewShotArchiveClient("http://unused", t.TempDir(), logrus.New())

	_, err := client.parseArchive(bytes.NewReader(archive), "shotdetail_2024", 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shotdetail_2024.csv")
}

func TestParseCSVRejectsMissingColumns(t *testing.T) {
	client := NewShotArchiveClient("http://unused", t.TempDir(), logrus.New())

	_, err := client.parseCSV(bytes.NewReader([]byte("PLAYER_ID,SHOT_TYPE\n1,2PT Field Goal\n")), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestSeasonShotsDownloadsAndCaches(t *testing.T) {
	archive := buildArchive(t, "shotdetail_2024.csv", archiveCSV)

	var indexHits, archiveHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list_data.txt":
			indexHits++
			w.Write([]byte("shotdetail_2023=http://example.invalid/old\nshotdetail_2024=" + serverURL(r) + "/shotdetail_2024.tar.xz\n"))
		case "/shotdetail_2024.tar.xz":
			archiveHits++
			w.Write(archive)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewShotArchiveClient(server.URL, t.TempDir(), logrus.New())

	shots, err := client.SeasonShots(context.Background(), 2024, "Regular Season")
	require.NoError(t, err)
	assert.Len(t, shots, 2)

	// Second call is served from the on-disk cache.
	shots, err = client.SeasonShots(context.Background(), 2024, "Regular Season")
	require.NoError(t, err)
	assert.Len(t, shots, 2)
	assert.Equal(t, 1, indexHits)
	assert.Equal(t, 1, archiveHits)
}

func TestSeasonShotsUnknownDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("shotdetail_2023=http://example.invalid/old\n"))
	}))
	defer server.Close()

	client := NewShotArchiveClient(server.URL, t.TempDir(), logrus.New())

	_, err := client.SeasonShots(context.Background(), 2024, "Regular Season")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shotdetail_2024")
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "shotdetail_2024", datasetName(2024, "Regular Season"))
	assert.Equal(t, "shotdetail_po_2024", datasetName(2024, "Playoffs"))
}

// serverURL reconstructs the test server's base URL from the request,
// so the index can point at the same server.
func serverURL(r *http.Request) string {
	return "http://" + r.Host
}
