package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abczzz13/realip"
)

// NewResolveCommand builds a command that resolves a synthetic request, for
// checking how a given set of proxy headers is interpreted.
func NewResolveCommand() *cobra.Command {
	var headers []string
	var remoteAddr string
	var peerFallback bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the client address of a request built from flags",
		Example: `  realipd resolve -H "X-Forwarded-For: 203.0.113.7, 70.41.3.18"
  realipd resolve -H "CloudFront-Viewer-Address: 203.0.113.7:4711"
  realipd resolve --remote-addr 198.51.100.4:5555 --peer-fallback`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header, err := parseHeaderFlags(headers)
			if err != nil {
				return err
			}

			resolver, err := realip.New(realip.WithPeerFallback(peerFallback))
			if err != nil {
				return err
			}

			res, err := resolver.LookupFrom(realip.RequestInput{
				Context:    cmd.Context(),
				RemoteAddr: remoteAddr,
				Headers:    header,
			})
			if errors.Is(err, realip.ErrAddressNotFound) {
				return fmt.Errorf("no client address: %w", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address: %s\n", res.Address)
			fmt.Fprintf(out, "masked:  %s\n", res.Address.Mask())
			fmt.Fprintf(out, "source:  %s\n", res.Source)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&headers, "header", "H", nil, `request header as "Name: value" (repeatable)`)
	flags.StringVar(&remoteAddr, "remote-addr", "", "transport peer address (ip:port)")
	flags.BoolVar(&peerFallback, "peer-fallback", false, "use --remote-addr when no header matches")

	return cmd
}

func parseHeaderFlags(values []string) (http.Header, error) {
	header := make(http.Header, len(values))
	for _, value := range values {
		name, v, ok := strings.Cut(value, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: want \"Name: value\"", value)
		}
		header.Add(textproto.CanonicalMIMEHeaderKey(name), strings.TrimSpace(v))
	}
	return header, nil
}
