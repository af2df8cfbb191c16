package documents

import (
	"fmt"

	"github.com/jrsteele09/go-efact-client/blobs"
)

// Kind names one of the three documents published per ticket.
type Kind string

const (
	KindPDF Kind = "pdf"
	KindXML Kind = "xml"
	KindCDR Kind = "cdr"
)

// Kinds lists the document kinds in retrieval order.
var Kinds = []Kind{KindPDF, KindXML, KindCDR}

// FileName returns the default download name for a document of kind issued under ticket.
func FileName(kind Kind, ticket string) string {
	switch kind {
	case KindPDF:
		return fmt.Sprintf("Factura_%s.pdf", ticket)
	case KindXML:
		return fmt.Sprintf("Factura_%s.xml", ticket)
	case KindCDR:
		return fmt.Sprintf("CDR_%s.xml", ticket)
	}
	return fmt.Sprintf("%s_%s", kind, ticket)
}

// Bundle holds whatever could be retrieved for a ticket. A nil slot means that document
// could not be retrieved.
type Bundle struct {
	Ticket string
	PDF    *blobs.Handle
	XML    *string
	CDR    *string
}

// Empty reports whether none of the three documents could be retrieved.
func (b *Bundle) Empty() bool {
	return b.PDF == nil && b.XML == nil && b.CDR == nil
}

// Available lists the kinds present in the bundle.
func (b *Bundle) Available() []Kind {
	var kinds []Kind
	if b.PDF != nil {
		kinds = append(kinds, KindPDF)
	}
	if b.XML != nil {
		kinds = append(kinds, KindXML)
	}
	if b.CDR != nil {
		kinds = append(kinds, KindCDR)
	}
	return kinds
}

// Release revokes the PDF handle. The bundle must not be used for downloads afterwards.
func (b *Bundle) Release(registry *blobs.Registry) {
	if b.PDF != nil {
		registry.Revoke(*b.PDF)
	}
}

// Save downloads every present document under its default file name and returns the
// written paths in retrieval order.
func (b *Bundle) Save(r *Retriever) ([]string, error) {
	var paths []string
	if b.PDF != nil {
		path, err := r.DownloadBinary(*b.PDF, FileName(KindPDF, b.Ticket))
		if err != nil {
			return paths, fmt.Errorf("[Bundle Save] pdf: %w", err)
		}
		paths = append(paths, path)
	}
	if b.XML != nil {
		path, err := r.DownloadText(*b.XML, FileName(KindXML, b.Ticket), "")
		if err != nil {
			return paths, fmt.Errorf("[Bundle Save] xml: %w", err)
		}
		paths = append(paths, path)
	}
	if b.CDR != nil {
		path, err := r.DownloadText(*b.CDR, FileName(KindCDR, b.Ticket), "")
		if err != nil {
			return paths, fmt.Errorf("[Bundle Save] cdr: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
