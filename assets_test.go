package main

import (
	"net/http"
	"testing"

	"github.com/Zachkp/folio/content"
	"github.com/Zachkp/folio/gallery"
)

func TestAssets_FallbackImagesServed(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)

	for _, img := range gallery.FallbackImages() {
		if rec := c.get(img); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", img, rec.Code)
		}
	}
}

func TestAssets_DefaultContentServed(t *testing.T) {
	site, err := content.Load("data")
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t)
	c := ts.client(t)

	var refs []string
	for _, p := range site.Projects {
		refs = append(refs, p.Image, p.Video)
	}
	for _, e := range site.Experience {
		refs = append(refs, e.Logo)
	}
	for _, e := range site.Education {
		refs = append(refs, e.Logo)
	}

	served := 0
	for _, ref := range refs {
		if _, ok := localAsset(ref); !ok {
			continue
		}
		served++
		if rec := c.get(ref); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", ref, rec.Code)
		}
	}
	if served == 0 {
		t.Error("default content references no local assets")
	}
}
