// Package documents fetches the PDF, XML and CDR published for an invoice ticket and
// saves them to the local download directory.
package documents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-efact-client/blobs"
	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/jrsteele09/go-efact-client/internal/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultMimeType = "text/xml"

// Options controls where downloads are written and how text documents are typed.
type Options struct {
	DownloadDir     string
	DefaultMimeType string
}

type Retriever struct {
	client          *http.Client
	baseURL         string
	registry        *blobs.Registry
	downloadDir     string
	defaultMimeType string
}

// NewRetriever returns a Retriever that reads from baseURL (the versioned documents API
// root, e.g. https://api.example.com/v1) through client.
func NewRetriever(client *http.Client, baseURL string, registry *blobs.Registry, opts Options) *Retriever {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.DefaultMimeType == "" {
		opts.DefaultMimeType = defaultMimeType
	}
	return &Retriever{
		client:          client,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		registry:        registry,
		downloadDir:     opts.DownloadDir,
		defaultMimeType: opts.DefaultMimeType,
	}
}

func (r *Retriever) Registry() *blobs.Registry {
	return r.registry
}

// GetDocuments fetches the three documents for ticket concurrently and waits for all of
// them. A document that cannot be fetched is logged and left nil; the only error is
// ErrEmptyTicket.
func (r *Retriever) GetDocuments(ctx context.Context, ticket string) (*Bundle, error) {
	if strings.TrimSpace(ticket) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrEmptyTicket, "[Retriever GetDocuments]")
	}

	bundle := &Bundle{Ticket: ticket}

	// Every branch returns nil so one failure never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		data, contentType, err := r.fetch(ctx, KindPDF, ticket)
		if err != nil {
			logUnavailable(ticket, KindPDF, err)
			return nil
		}
		bundle.PDF = utils.Ptr(r.registry.Create(data, contentType))
		return nil
	})
	g.Go(func() error {
		bundle.XML = r.fetchText(ctx, KindXML, ticket)
		return nil
	})
	g.Go(func() error {
		bundle.CDR = r.fetchText(ctx, KindCDR, ticket)
		return nil
	})
	_ = g.Wait()

	log.Debug().
		Str("ticket", ticket).
		Interface("available", bundle.Available()).
		Msg("[Retriever GetDocuments] retrieved")
	return bundle, nil
}

// Load is GetDocuments for a viewer: a bundle with nothing in it is reported as
// ErrNoDocuments.
func (r *Retriever) Load(ctx context.Context, ticket string) (*Bundle, error) {
	bundle, err := r.GetDocuments(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if bundle.Empty() {
		return nil, apperrors.Wrapf(apperrors.ErrNoDocuments, "[Retriever Load] %s", ticket)
	}
	return bundle, nil
}

func (r *Retriever) fetchText(ctx context.Context, kind Kind, ticket string) *string {
	data, _, err := r.fetch(ctx, kind, ticket)
	if err != nil {
		logUnavailable(ticket, kind, err)
		return nil
	}
	return utils.Ptr(string(data))
}

func (r *Retriever) fetch(ctx context.Context, kind Kind, ticket string) ([]byte, string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", r.baseURL, kind, url.PathEscape(ticket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("[Retriever fetch] building request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("[Retriever fetch] %w", err)
	}
	defer resp.Body.Close()

	// Clients without the error handler in their pipeline still see failures here.
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("[Retriever fetch] %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("[Retriever fetch] reading body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func logUnavailable(ticket string, kind Kind, err error) {
	log.Warn().
		Err(err).
		Str("ticket", ticket).
		Str("document", string(kind)).
		Msg("[Retriever GetDocuments] document unavailable")
}
