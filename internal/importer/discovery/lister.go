// Package discovery finds bulk data files in the storage bucket and groups
// them into named datasets.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
)

// ListerConfig configures a Lister.
type ListerConfig struct {
	// BucketBase is the public base URL of the bucket, without a trailing
	// slash, e.g. https://storage.googleapis.com/fhir-aggregator-public.
	BucketBase string
	// APIBase is the base URL of the storage metadata API.
	APIBase string
	// PageSize is the maxResults value per listing page.
	PageSize int64
}

// Lister enumerates bulk data files in the storage bucket, paginating
// until the listing is exhausted.
type Lister struct {
	client *http.Client
	cfg    ListerConfig
}

// NewLister creates a Lister using the shared HTTP client.
func NewLister(client *http.Client, cfg ListerConfig) *Lister {
	cfg.BucketBase = strings.TrimSuffix(cfg.BucketBase, "/")
	if cfg.PageSize < 1 {
		cfg.PageSize = 1000
	}

	return &Lister{client: client, cfg: cfg}
}

type listPage struct {
	Items []listItem `json:"items"`
	// NextPageToken is absent on the final page.
	NextPageToken string `json:"nextPageToken"`
}

type listItem struct {
	Name string `json:"name"`
	// The metadata API reports size as a decimal string.
	Size string `json:"size"`
}

// List returns every data file in the bucket, in listing order. An empty
// bucket yields an empty slice, not an error.
func (l *Lister) List(ctx context.Context) ([]entity.StorageObject, error) {
	bucket := path.Base(l.cfg.BucketBase)
	listURL := strings.TrimSuffix(l.cfg.APIBase, "/") + "/b/" + bucket + "/o"

	params := url.Values{}
	params.Set("fields", "items(name,size)")
	params.Set("maxResults", strconv.FormatInt(l.cfg.PageSize, 10))

	var objects []entity.StorageObject
	for {
		page, err := l.fetchPage(ctx, listURL, params)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if !strings.HasSuffix(item.Name, entity.DataFileSuffix) {
				continue
			}

			size, err := strconv.ParseInt(item.Size, 10, 64)
			if err != nil {
				return nil, pkgerror.NewTransport(fmt.Errorf("listing %s: object %s has malformed size %q", bucket, item.Name, item.Size))
			}

			objects = append(objects, entity.StorageObject{
				URL:       l.cfg.BucketBase + "/" + item.Name,
				SizeBytes: size,
			})
		}

		if page.NextPageToken == "" {
			return objects, nil
		}
		params.Set("pageToken", page.NextPageToken)
	}
}

func (l *Lister) fetchPage(ctx context.Context, listURL string, params url.Values) (*listPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, pkgerror.NewInternal(err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, pkgerror.NewTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, pkgerror.NewTransport(fmt.Errorf("listing page: status %d: %s", resp.StatusCode, string(body)))
	}

	var page listPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, pkgerror.NewTransport(fmt.Errorf("decoding listing page: %w", err))
	}

	return &page, nil
}
