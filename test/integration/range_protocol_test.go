package integration

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/square/erg"

	"github.com/lemonberrylabs/hostlist/pkg/api"
	"github.com/lemonberrylabs/hostlist/pkg/groups"
)

// startServer runs the API server on an ephemeral port and returns the
// port. The server is shut down when the test finishes.
func startServer(t *testing.T) int {
	t.Helper()

	reg := groups.New()
	if err := reg.Set("web", "web[01-03].example.com"); err != nil {
		t.Fatalf("set group: %v", err)
	}
	srv := api.New(reg)

	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.App().Listener(ln)
	t.Cleanup(func() {
		if err := srv.Shutdown(); err != nil {
			t.Logf("shutdown warning: %v", err)
		}
	})

	return ln.Addr().(*net.TCPAddr).Port
}

// TestErgExpand drives /range/list through the erg client, which is how
// gssh and other range-server tools would reach the daemon.
func TestErgExpand(t *testing.T) {
	port := startServer(t)

	client := erg.New("localhost", port)
	hosts, err := client.Expand("db[1-3].internal")
	if err != nil {
		t.Fatalf("erg expand: %v", err)
	}

	want := []string{"db1.internal", "db2.internal", "db3.internal"}
	if !reflect.DeepEqual(hosts, want) {
		t.Fatalf("expected %v, got %v", want, hosts)
	}
}

func TestRangeListBadExpression(t *testing.T) {
	port := startServer(t)

	u := fmt.Sprintf("http://localhost:%d/range/list?%s", port, url.QueryEscape("db[1-"))
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExpandOverHTTP(t *testing.T) {
	port := startServer(t)

	u := fmt.Sprintf("http://localhost:%d/v1/expand?query=%s&sorted=true",
		port, url.QueryEscape("web[3,1,2]"))
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Query string   `json:"query"`
		Count int      `json:"count"`
		Hosts []string `json:"hosts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Count != 3 {
		t.Fatalf("expected count 3, got %d", body.Count)
	}
	want := []string{"web1", "web2", "web3"}
	if !reflect.DeepEqual(body.Hosts, want) {
		t.Fatalf("expected %v, got %v", want, body.Hosts)
	}
}

func TestGroupHostsOverHTTP(t *testing.T) {
	port := startServer(t)

	u := fmt.Sprintf("http://localhost:%d/v1/groups/web/hosts", port)
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Name  string   `json:"name"`
		Hosts []string `json:"hosts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := []string{"web01.example.com", "web02.example.com", "web03.example.com"}
	if !reflect.DeepEqual(body.Hosts, want) {
		t.Fatalf("expected %v, got %v", want, body.Hosts)
	}
}
