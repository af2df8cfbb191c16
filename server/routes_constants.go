package server

// Viewer route patterns.
const (
	RouteHealth    = "GET /health"
	RouteBlob      = "GET /blobs/{id}"
	RouteDocuments = "GET /documents/{ticket}"
	RouteDownload  = "POST /documents/{ticket}/download"
)

// BlobPath returns the viewer path serving the blob with the given id.
func BlobPath(id string) string {
	return "/blobs/" + id
}
