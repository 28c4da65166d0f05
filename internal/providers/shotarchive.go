package providers

import (
	"archive/tar"
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

// ShotArchiveClient loads full-season shot-detail datasets from the
// shufinskiy/nba_data archive: an index file maps dataset names to
// tar.xz download URLs, each containing one CSV. Downloads are cached
// on disk so a season is only pulled once.
type ShotArchiveClient struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewShotArchiveClient(baseURL, cacheDir string, logger *logrus.Logger) *ShotArchiveClient {
	return &ShotArchiveClient{
		baseURL:  baseURL,
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // season archives run to tens of MB
		},
		logger: logger,
	}
}

// datasetName builds the archive key, e.g. "shotdetail_2024" for the
// regular season or "shotdetail_po_2024" for the playoffs.
func datasetName(seasonYear int, seasonType string) string {
	if seasonType == "Playoffs" {
		return fmt.Sprintf("shotdetail_po_%d", seasonYear)
	}
	return fmt.Sprintf("shotdetail_%d", seasonYear)
}

// SeasonShots downloads (or reads from the on-disk cache) the shot
// detail dataset for one season and season type.
func (c *ShotArchiveClient) SeasonShots(ctx context.Context, seasonYear int, seasonType string) ([]models.SeasonShot, error) {
	name := datasetName(seasonYear, seasonType)
	archivePath := filepath.Join(c.cacheDir, name+".tar.xz")

	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		if err := c.download(ctx, name, archivePath); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cached archive: %w", err)
	}
	defer f.Close()

	return c.parseArchive(f, name, seasonYear)
}

// download resolves the dataset URL through the archive index and
// writes the tar.xz to the cache directory.
func (c *ShotArchiveClient) download(ctx context.Context, name, dest string) error {
	datasetURL, err := c.lookupDatasetURL(ctx, name)
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"dataset": name,
		"url":     datasetURL,
	}).Info("Downloading shot archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, datasetURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: shot archive: %v", utils.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: shot archive: unexpected status code %d", utils.ErrUpstreamFetch, resp.StatusCode)
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: shot archive: %v", utils.ErrUpstreamFetch, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dest)
}

// lookupDatasetURL fetches the archive index (name=url per line) and
// returns the URL for the requested dataset.
func (c *ShotArchiveClient) lookupDatasetURL(ctx context.Context, name string) (string, error) {
	indexURL := c.baseURL + "/list_data.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: archive index: %v", utils.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: archive index: unexpected status code %d", utils.ErrUpstreamFetch, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if found && key == name {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: archive index: %v", utils.ErrUpstreamFetch, err)
	}

	return "", fmt.Errorf("%w: dataset %s not in archive index", utils.ErrUpstreamFetch, name)
}

// parseArchive decompresses the tar.xz stream, locates the dataset CSV
// and converts its rows.
func (c *ShotArchiveClient) parseArchive(r io.Reader, name string, seasonYear int) ([]models.SeasonShot, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xz stream: %w", err)
	}

	tr := tar.NewReader(xzr)
	wantCSV := name + ".csv"
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s not found in archive", wantCSV)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		if filepath.Base(hdr.Name) == wantCSV {
			return c.parseCSV(tr, seasonYear)
		}
	}
}

func (c *ShotArchiveClient) parseCSV(r io.Reader, seasonYear int) ([]models.SeasonShot, error) {
	reader := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"PLAYER_ID", "SHOT_TYPE", "ACTION_TYPE", "SHOT_ZONE_BASIC", "SHOT_ZONE_AREA", "SHOT_MADE_FLAG"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("shot archive CSV missing column %s", required)
		}
	}

	var shots []models.SeasonShot
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		shots = append(shots, models.SeasonShot{
			Season:     seasonYear,
			PlayerID:   csvInt(record, cols, "PLAYER_ID"),
			PlayerName: csvString(record, cols, "PLAYER_NAME"),
			PointValue: shotPointValue(csvString(record, cols, "SHOT_TYPE")),
			ActionType: csvString(record, cols, "ACTION_TYPE"),
			ZoneBasic:  csvString(record, cols, "SHOT_ZONE_BASIC"),
			ZoneArea:   csvString(record, cols, "SHOT_ZONE_AREA"),
			Made:       csvInt(record, cols, "SHOT_MADE_FLAG") == 1,
			// Mirror court x to the dashboard's orientation.
			LocX: -csvInt(record, cols, "LOC_X"),
			LocY: csvInt(record, cols, "LOC_Y"),
		})
	}

	c.logger.WithField("rows", len(shots)).Info("Parsed shot archive CSV")
	return shots, nil
}

func csvString(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func csvInt(record []string, cols map[string]int, name string) int {
	v := csvString(record, cols, name)
	if v == "" {
		return 0
	}
	// Some archive exports carry numeric columns as floats.
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}
