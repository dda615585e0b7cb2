// lticonfig renders or downloads LTI tool provider configuration documents.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	lticonfig render --config FILE [-o OUT]
//	lticonfig fetch --url URL [-o OUT] [--fingerprint] [--timeout 30s]
//
// Examples:
//
//	lticonfig render --config tool.yaml -o public/config.xml
//	lticonfig fetch --url https://tool.example.com/lti/config.xml -o config.xml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/renameio/v2"
	flag "github.com/spf13/pflag"

	"lti-provider/internal/config"
	"lti-provider/internal/digest"
	"lti-provider/internal/transport"
)

// maxDocumentSize caps fetched documents.
const maxDocumentSize = 1 << 20

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "render":
		err = runRender(args)
	case "fetch":
		err = runFetch(args)
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `lticonfig - LTI tool provider configuration tool

Usage:
  lticonfig <command> [options]

Commands:
  render    Render the configuration XML from a JSON or YAML tool file
  fetch     Download a served configuration XML and verify its Content-Digest

Run 'lticonfig <command> --help' for command options.
`)
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "tool definition file (.json, .yaml, .yml)")
	out := fs.StringP("output", "o", "", "output file (default stdout)")
	fs.Parse(args)

	if *configPath == "" {
		return errors.New("--config is required")
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}

	tool, err := cfg.BuildConfiguration()
	if err != nil {
		return fmt.Errorf("building tool configuration: %w", err)
	}

	return writeOutput(*out, []byte(tool.Render()))
}

func runFetch(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	rawURL := fs.StringP("url", "u", "", "configuration URL, e.g. https://tool.example.com/lti/config.xml")
	out := fs.StringP("output", "o", "", "output file (default stdout)")
	fingerprint := fs.Bool("fingerprint", false, "present a Chrome TLS fingerprint")
	timeout := fs.Duration("timeout", transport.DefaultTimeout, "request timeout")
	fs.Parse(args)

	if *rawURL == "" {
		return errors.New("--url is required")
	}

	client := transport.NewClient(transport.Options{
		Timeout:     *timeout,
		Fingerprint: *fingerprint,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	doc, err := fetch(ctx, client, *rawURL)
	if err != nil {
		return err
	}

	return writeOutput(*out, doc)
}

// fetch downloads a configuration document and checks Content-Digest when the
// server sends one.
func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(doc) > maxDocumentSize {
		return nil, fmt.Errorf("fetching %s: document exceeds %d bytes", rawURL, maxDocumentSize)
	}

	if header := resp.Header.Get(digest.Header); header != "" {
		if err := digest.Verify(header, doc); err != nil && !errors.Is(err, digest.ErrUnsupported) {
			return nil, fmt.Errorf("verifying %s: %w", digest.Header, err)
		}
	}

	return doc, nil
}

// writeOutput writes to stdout, or atomically replaces path.
func writeOutput(path string, doc []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(doc)
		return err
	}

	// renameio handles: temp file creation, fsync, atomic rename
	if err := renameio.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
