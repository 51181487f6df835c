//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type rocket struct {
	Name        string   `json:"rocket_name"`
	Description string   `json:"description"`
	Images      []string `json:"flickr_images"`
}

var fixtureRockets = []rocket{
	{Name: "Falcon 1", Description: "The Falcon 1 was an expendable launch system.", Images: []string{"https://imgur.com/DaCfMsj.jpg"}},
	{Name: "Falcon 9", Description: "Falcon 9 is a two-stage rocket.", Images: []string{"https://farm1.staticflickr.com/929/28787338307_3453a11a77_b.jpg"}},
	{Name: "Falcon Heavy", Description: "With the ability to lift into orbit over 54 metric tons.", Images: []string{"https://farm5.staticflickr.com/4599/38583829295_581f34dd84_b.jpg"}},
	{Name: "Starship", Description: "Starship and Super Heavy Rocket represent a fully reusable transportation system."},
}

// catalogServer serves the fixture catalog and counts requests
type catalogServer struct {
	*httptest.Server
	hits   atomic.Int64
	status int
}

func newCatalogServer(t *testing.T, status int) *catalogServer {
	t.Helper()
	cs := &catalogServer{status: status}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		if cs.status != http.StatusOK {
			http.Error(w, "catalog unavailable", cs.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fixtureRockets)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) Hits() int64 {
	return cs.hits.Load()
}
