// Package main runs a demo WebSocket client: it imports a tiny problem,
// starts a weighted front sweep, and prints the progress events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	problemID := post(base, "/v1/problems", []byte(`{
		"name": "demo",
		"assets": [
			{"lat": -19.92, "lon": -43.94}, {"lat": -19.93, "lon": -43.95},
			{"lat": -20.38, "lon": -43.50}, {"lat": -20.39, "lon": -43.51}
		],
		"bases": [{"lat": -19.90, "lon": -43.93}, {"lat": -20.40, "lon": -43.51}],
		"maxTeams": 2,
		"eta": 0.2
	}`))
	log.Printf("Problem ID: %s", problemID)

	frontID := post(base, "/v1/fronts", []byte(fmt.Sprintf(
		`{"problemId":%q,"mode":"pw","points":6,"maxIter":100,"seed":1}`, problemID)))
	log.Printf("Front ID: %s", frontID)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/fronts/" + frontID + "/ws"}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	hdr.Set("X-Role", "admin")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt struct {
				Type      string `json:"type"`
				Completed int    `json:"completed"`
				Total     int    `json:"total"`
			}
			if err := c.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s %d/%d", evt.Type, evt.Completed, evt.Total)
			if evt.Type == "front.completed" || evt.Type == "front.failed" {
				return
			}
		}
	}()

	select {
	case <-time.After(60 * time.Second):
		log.Print("timed out waiting for completion")
	case <-done:
	}
}

func post(base, path string, body []byte) string {
	req, _ := http.NewRequest(http.MethodPost, base+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	req.Header.Set("X-Role", "admin")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: status %d", path, resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatal(err)
	}
	return out.ID
}
