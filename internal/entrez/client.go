package entrez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

const (
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	DefaultEmail   = "guest@example.com"
	tooMany        = 50000
)

var (
	ErrNoRecords       = errors.New("query returned no records")
	ErrTooManyFailures = errors.New("too many failed downloads")
)

// SearchResult is the esearch answer kept on the history server.
type SearchResult struct {
	Count            int      `json:"count,string"`
	RetMax           int      `json:"retmax,string"`
	RetStart         int      `json:"retstart,string"`
	QueryKey         string   `json:"querykey"`
	WebEnv           string   `json:"webenv"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
}

type searchResponse struct {
	Result SearchResult `json:"esearchresult"`
}

// Client talks to the E-utilities. The zero value is not usable; use NewClient.
type Client struct {
	BaseURL string
	DB      string
	Email   string
	Tool    string
	// SeqN caps the number of downloaded records; 0 downloads all.
	SeqN      int
	MaxRetry  int
	RetryWait time.Duration
	HTTP      *http.Client
	// OnPage is called after each fetched page with the number of records
	// requested.
	OnPage func(n int)
}

func NewClient(email string) *Client {
	if email == "" {
		email = DefaultEmail
		logging.Infof("\tEmail address for using Entrez missing, use %s instead.", email)
	}
	return &Client{
		BaseURL:   DefaultBaseURL,
		DB:        "nuccore",
		Email:     email,
		Tool:      "barcodefinder",
		MaxRetry:  10,
		RetryWait: time.Second,
		HTTP:      &http.Client{Timeout: 5 * time.Minute},
	}
}

// Search runs esearch with the history server enabled.
func (c *Client) Search(ctx context.Context, term string) (SearchResult, error) {
	params := c.params()
	params.Set("term", term)
	params.Set("usehistory", "y")
	params.Set("retmode", "json")
	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return SearchResult{}, fmt.Errorf("esearch: %w", err)
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SearchResult{}, fmt.Errorf("decode esearch: %w", err)
	}
	return resp.Result, nil
}

// Download writes the GenBank text of every record matching term to dst.
// A page is written only once it has been read completely.
func (c *Client) Download(ctx context.Context, term string, dst io.Writer) (SearchResult, error) {
	res, err := c.Search(ctx, term)
	if err != nil {
		return res, err
	}
	count := res.Count
	switch {
	case count == 0:
		logging.Warnf("Got 0 record. Please check the query.")
		return res, ErrNoRecords
	case count > tooMany:
		logging.Warnf("Got %d records. May cost long time to download.", count)
	default:
		logging.Infof("\tGot %d records.", count)
	}
	if c.SeqN > 0 && count > c.SeqN {
		count = c.SeqN
		logging.Infof("\tDownload %d records because of \"-seq_n\".", c.SeqN)
	}

	logging.Infof("\tDownloading...")
	page := PageSize(count)
	failures := 0
	for start := 0; start < count; {
		n := min(page, count-start)
		logging.Infof("\t%d--%d", start, start+n)
		data, err := c.fetch(ctx, res, start, n)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			failures++
			if failures > c.MaxRetry {
				logging.Criticalf("Too much failure (%d times).", c.MaxRetry)
				return res, fmt.Errorf("%w: %v", ErrTooManyFailures, err)
			}
			logging.Warnf("Failed on download. Retrying...")
			logging.Debugf("%v", err)
			if err := sleep(ctx, c.RetryWait); err != nil {
				return res, err
			}
			continue
		}
		if _, err := dst.Write(data); err != nil {
			return res, fmt.Errorf("write records: %w", err)
		}
		if c.OnPage != nil {
			c.OnPage(n)
		}
		start += n
	}
	logging.Infof("Download finished.")
	return res, nil
}

// PageSize is the efetch batch size for count records.
func PageSize(count int) int {
	switch {
	case count >= 1000:
		return 1000
	case count >= 100:
		return 100
	case count >= 10:
		return 10
	default:
		return 1
	}
}

func (c *Client) fetch(ctx context.Context, res SearchResult, start, n int) ([]byte, error) {
	params := c.params()
	params.Set("WebEnv", res.WebEnv)
	params.Set("query_key", res.QueryKey)
	params.Set("rettype", "gb")
	params.Set("retmode", "text")
	params.Set("retstart", strconv.Itoa(start))
	params.Set("retmax", strconv.Itoa(n))
	return c.get(ctx, "efetch.fcgi", params)
}

func (c *Client) params() url.Values {
	v := url.Values{}
	v.Set("db", c.DB)
	if c.Email != "" {
		v.Set("email", c.Email)
	}
	if c.Tool != "" {
		v.Set("tool", c.Tool)
	}
	return v
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := strings.TrimSuffix(c.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed: %s: %s", endpoint, resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
