package realip

import "strings"

const (
	// SourceCFConnectingIP resolves from Cloudflare's CF-Connecting-IP header.
	SourceCFConnectingIP = "cf_connecting_ip"
	// SourceXClusterClientIP resolves from the X-Cluster-Client-IP header.
	SourceXClusterClientIP = "x_cluster_client_ip"
	// SourceFlyClientIP resolves from Fly.io's Fly-Client-IP header.
	SourceFlyClientIP = "fly_client_ip"
	// SourceFastlyClientIP resolves from Fastly's Fastly-Client-IP header.
	SourceFastlyClientIP = "fastly_client_ip"
	// SourceCloudFrontViewerAddress resolves from CloudFront's
	// CloudFront-Viewer-Address header (ip:port form).
	SourceCloudFrontViewerAddress = "cloudfront_viewer_address"
	// SourceXRealIP resolves from the X-Real-IP header.
	SourceXRealIP = "x_real_ip"
	// SourceXForwardedFor resolves from the X-Forwarded-For header.
	SourceXForwardedFor = "x_forwarded_for"
	// SourceXOriginalForwardedFor resolves from the X-Original-Forwarded-For
	// header.
	SourceXOriginalForwardedFor = "x_original_forwarded_for"
	// SourceTrueClientIP resolves from the True-Client-IP header.
	SourceTrueClientIP = "true_client_ip"
	// SourceClientIP resolves from the Client-IP header.
	SourceClientIP = "client_ip"
	// SourceRemoteAddr resolves from the transport peer (Request.RemoteAddr).
	SourceRemoteAddr = "remote_addr"
)

// candidateHeaders lists the recognized headers, most specific first. Edge
// and CDN headers come before generic proxy headers because an end client
// has a harder time forging them; later entries are fallbacks for
// deployments that do not set the earlier ones.
//
// Names are in canonical MIME form.
var candidateHeaders = [...]string{
	"Cf-Connecting-Ip",
	"X-Cluster-Client-Ip",
	"Fly-Client-Ip",
	"Fastly-Client-Ip",
	"Cloudfront-Viewer-Address",
	"X-Real-Ip",
	"X-Forwarded-For",
	"X-Original-Forwarded-For",
	"True-Client-Ip",
	"Client-Ip",
}

// candidateSources holds the source name for each entry of candidateHeaders.
var candidateSources = func() [len(candidateHeaders)]string {
	var sources [len(candidateHeaders)]string
	for i, header := range candidateHeaders {
		sources[i] = NormalizeSourceName(header)
	}
	return sources
}()

// CandidateHeaders returns the recognized header names in priority order.
//
// The returned slice is a copy; modifying it has no effect on resolution.
func CandidateHeaders() []string {
	headers := make([]string, len(candidateHeaders))
	copy(headers, candidateHeaders[:])
	return headers
}

// NormalizeSourceName converts a header name into its source name, for
// example "X-Forwarded-For" becomes "x_forwarded_for".
func NormalizeSourceName(headerName string) string {
	return strings.ToLower(strings.ReplaceAll(headerName, "-", "_"))
}
