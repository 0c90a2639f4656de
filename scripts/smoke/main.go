// Command smoke exercises a running API instance end to end: catalog listing,
// schedule resolution, the ICS feed, and the export lifecycle. It exits
// non-zero when any check fails, so it can gate deploys.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type check struct {
	name       string
	method     string
	path       string
	body       string
	wantStatus int
	contains   string
}

func main() {
	var (
		base    string
		courses string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&courses, "courses", "MGT408-01,MGT945-01", "Course IDs to schedule")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	encoded := url.QueryEscape(courses)

	checks := []check{
		{name: "health", path: "/health", wantStatus: http.StatusOK, contains: `"status":"ok"`},
		{name: "course listing", path: "/api/v1/courses", wantStatus: http.StatusOK, contains: `"data"`},
		{name: "course facets", path: "/api/v1/courses/facets", wantStatus: http.StatusOK, contains: `"categories"`},
		{name: "schedule", path: "/api/v1/schedule?courses=" + encoded, wantStatus: http.StatusOK, contains: `"totalUnits"`},
		{name: "schedule ics", path: "/api/v1/schedule/ics?courses=" + encoded, wantStatus: http.StatusOK, contains: "BEGIN:VCALENDAR"},
		{name: "schedule share", path: "/api/v1/schedule/share?courses=" + encoded, wantStatus: http.StatusOK, contains: `"shareUrl"`},
		{name: "schedule rejects empty", path: "/api/v1/schedule", wantStatus: http.StatusBadRequest, contains: `"error"`},
	}

	failed := 0
	for _, c := range checks {
		if err := run(client, base, c); err != nil {
			failed++
			fmt.Printf("[FAIL] %s: %v\n", c.name, err)
			continue
		}
		fmt.Printf("[ OK ] %s\n", c.name)
	}

	if err := exportLifecycle(client, base, courses); err != nil {
		failed++
		fmt.Printf("[FAIL] export lifecycle: %v\n", err)
	} else {
		fmt.Println("[ OK ] export lifecycle")
	}

	if failed > 0 {
		fmt.Printf("%d checks failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}

func run(client *http.Client, base string, c check) error {
	method := c.method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+c.path, body)
	if err != nil {
		return err
	}
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != c.wantStatus {
		return fmt.Errorf("status %d, want %d", resp.StatusCode, c.wantStatus)
	}
	if c.contains != "" && !strings.Contains(string(raw), c.contains) {
		return fmt.Errorf("response missing %q", c.contains)
	}
	return nil
}

// exportLifecycle creates an ICS export job, polls it to completion, and
// downloads the signed file.
func exportLifecycle(client *http.Client, base, courses string) error {
	ids := strings.Split(courses, ",")
	payload, err := json.Marshal(map[string]interface{}{"format": "ics", "courseIDs": ids})
	if err != nil {
		return err
	}

	resp, err := client.Post(strings.TrimRight(base, "/")+"/api/v1/exports", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("create: status %d", resp.StatusCode)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return err
	}
	if created.Data.ID == "" {
		return fmt.Errorf("create: missing job id")
	}

	var downloadURL string
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		statusResp, err := client.Get(strings.TrimRight(base, "/") + "/api/v1/exports/" + created.Data.ID)
		if err != nil {
			return err
		}
		var job struct {
			Data struct {
				Status      string `json:"status"`
				DownloadURL string `json:"downloadUrl"`
				Error       string `json:"error"`
			} `json:"data"`
		}
		decodeErr := json.NewDecoder(statusResp.Body).Decode(&job)
		statusResp.Body.Close()
		if decodeErr != nil {
			return decodeErr
		}
		switch job.Data.Status {
		case "completed":
			downloadURL = job.Data.DownloadURL
		case "failed":
			return fmt.Errorf("job failed: %s", job.Data.Error)
		}
		if downloadURL != "" {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if downloadURL == "" {
		return fmt.Errorf("job did not complete in time")
	}

	fileResp, err := client.Get(strings.TrimRight(base, "/") + "/api/v1" + downloadURL)
	if err != nil {
		return err
	}
	defer fileResp.Body.Close()
	content, err := io.ReadAll(fileResp.Body)
	if err != nil {
		return err
	}
	if fileResp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: status %d", fileResp.StatusCode)
	}
	if !strings.HasPrefix(string(content), "BEGIN:VCALENDAR") {
		return fmt.Errorf("download: not an iCalendar document")
	}
	return nil
}
