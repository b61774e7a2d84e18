package heatit

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	statusTimeout  = 5 * time.Second
	commandTimeout = 5 * time.Second
	probeTimeout   = 8 * time.Second
)

// Client talks to the local HTTP API of a single Heatit WiFi6
// thermostat. Network failures never surface as errors: reads degrade
// to nil and command results to false, the caller recovers on the next
// poll.
type Client struct {
	host       string
	httpClient *http.Client

	sleep func(time.Duration)
}

func New(host string, insecureTLS bool) *Client {
	transport := http.DefaultTransport
	if insecureTLS {
		// devices ship with self signed certs
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		host: strings.TrimRight(host, "/"),
		httpClient: &http.Client{
			Transport: transport,
		},
		sleep: time.Sleep,
	}
}

// Status fetches the full device snapshot. Returns nil when the device
// does not answer or answers garbage.
func (c *Client) Status(ctx context.Context) *Status {
	body := c.get(ctx, PathStatus, statusTimeout, 1)
	if body == nil {
		return nil
	}
	status := &Status{}
	if err := json.Unmarshal(body, status); err != nil {
		logrus.Errorf("decoding status from %s: %v", c.host, err)
		return nil
	}
	return status
}

// DeviceID fetches the device id with a longer timeout for devices that
// are slow to join wifi during startup. Returns UnknownDeviceID when
// the device cannot be reached.
func (c *Client) DeviceID(ctx context.Context) string {
	body := c.get(ctx, PathStatus, probeTimeout, 0)
	if body == nil {
		return UnknownDeviceID
	}
	status := &Status{}
	if err := json.Unmarshal(body, status); err != nil || status.ID == "" {
		return UnknownDeviceID
	}
	return status.ID
}

// SetParameter writes a single named parameter and reports whether the
// device confirmed it.
func (c *Client) SetParameter(ctx context.Context, parameter string, value any) bool {
	logrus.Infof("setting %s=%v on %s", parameter, value, c.host)
	body := c.post(ctx, PathParameters, map[string]any{parameter: value}, commandTimeout)
	resp := decodeCommand(body)
	if resp.Status == "Success" {
		logrus.Debugf("set %s=%v on %s confirmed", parameter, value, c.host)
		return true
	}
	logrus.Errorf("set %s=%v on %s failed: %s", parameter, value, c.host, resp.Detail)
	return false
}

// Reset clears device state selected by the reset type.
func (c *Client) Reset(ctx context.Context, resetType ResetType) error {
	if !resetType.Valid() {
		return fmt.Errorf("unknown reset type: %s", resetType)
	}
	logrus.Infof("resetting %s, type %s", c.host, resetType)
	body := c.delete(ctx, PathReset+"/"+string(resetType), commandTimeout)
	resp := decodeCommand(body)
	if resp.Status != "Success" {
		return fmt.Errorf("reset %s on %s failed: %s", resetType, c.host, resp.Detail)
	}
	return nil
}

// get fetches path with up to retries+1 attempts. Attempts that fail
// before the last one back off 2s, 4s, 6s... The firmware can be very
// slow to answer while it reconnects to wifi, hence the generous
// schedule. Exhaustion yields nil, never an error.
func (c *Client) get(ctx context.Context, path string, timeout time.Duration, retries int) []byte {
	url := c.host + path
	for attempt := 0; attempt <= retries; attempt++ {
		body, err := c.do(ctx, http.MethodGet, url, nil, timeout)
		if err == nil {
			return parseObject(body)
		}
		if attempt < retries {
			wait := time.Duration(2*(attempt+1)) * time.Second
			logrus.Debugf("GET %s failed (attempt %d/%d): %v. retrying in %s", url, attempt+1, retries+1, err, wait)
			c.sleep(wait)
			continue
		}
		logrus.Debugf("GET %s failed after %d attempts: %v", url, retries+1, err)
	}
	return nil
}

// post makes a single attempt and yields nil on failure.
func (c *Client) post(ctx context.Context, path string, data any, timeout time.Duration) []byte {
	url := c.host + path
	payload, err := json.Marshal(data)
	if err != nil {
		logrus.Errorf("POST %s: encoding body: %v", url, err)
		return nil
	}
	body, err := c.do(ctx, http.MethodPost, url, payload, timeout)
	if err != nil {
		logrus.Errorf("POST %s failed: %v", url, err)
		return nil
	}
	return parseObject(body)
}

// delete makes a single attempt and yields nil on failure.
func (c *Client) delete(ctx context.Context, path string, timeout time.Duration) []byte {
	url := c.host + path
	body, err := c.do(ctx, http.MethodDelete, url, nil, timeout)
	if err != nil {
		logrus.Errorf("DELETE %s failed: %v", url, err)
		return nil
	}
	return parseObject(body)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// parseObject accepts only bodies that look like a JSON object and
// decode cleanly. Anything else, including the empty bodies and html
// error pages the firmware sometimes serves, yields nil.
func parseObject(body []byte) []byte {
	text := bytes.TrimSpace(body)
	if len(text) == 0 || text[0] != '{' || text[len(text)-1] != '}' {
		return nil
	}
	if !json.Valid(text) {
		logrus.Errorf("json parsing failed on body: %.100s", text)
		return nil
	}
	return text
}

// commandResponse is the envelope the parameters and reset endpoints
// answer with.
type commandResponse struct {
	Status string          `json:"status"`
	Value  json.RawMessage `json:"value"`
	Detail string          `json:"detail"`
}

func decodeCommand(body []byte) commandResponse {
	resp := commandResponse{Status: "Failed"}
	if body == nil {
		return resp
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logrus.Errorf("decoding command response: %v", err)
		return commandResponse{Status: "Failed"}
	}
	if resp.Status == "" {
		resp.Status = "Failed"
	}
	return resp
}
