// gamescheck probes a running games server: health first, then the public
// leaderboard. Exit status is nonzero when either probe fails.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	baseURL := strings.TrimRight(os.Getenv("GAMES_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8090"
	}

	client := &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

	body, err := get(client, baseURL+"/healthz")
	if err != nil {
		log.Fatalf("/healthz error: %v", err)
	}
	log.Printf("/healthz ok: %s", strings.TrimSpace(string(body)))

	body, err = get(client, baseURL+"/api/leaderboard")
	if err != nil {
		log.Fatalf("/api/leaderboard error: %v", err)
	}
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Fatalf("/api/leaderboard decode error: %v", err)
	}
	if !resp.Success {
		log.Fatalf("/api/leaderboard returned failure: %s", body)
	}
	var entries []json.RawMessage
	if len(resp.Data) > 0 {
		_ = json.Unmarshal(resp.Data, &entries)
	}
	log.Printf("/api/leaderboard ok: %d entries", len(entries))
}

func get(client *fasthttp.Client, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	if err := client.DoDeadline(req, resp, time.Now().Add(5*time.Second)); err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", code)
	}
	return append([]byte(nil), resp.Body()...), nil
}
