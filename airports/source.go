// airports/source.go
package airports

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const downloadTimeout = 30 * time.Second

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// openSource opens an airports CSV from a local path or an http(s) URL.
func openSource(source string) (io.ReadCloser, error) {
	if !isURL(source) {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open airports file %s: %w", source, err)
		}
		return file, nil
	}

	log.Printf("Airports: downloading %s\n", source)
	client := http.Client{Timeout: downloadTimeout}
	resp, err := client.Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download airports from %s: received status code %d", source, resp.StatusCode)
	}
	return resp.Body, nil
}
