package ugdata

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
)

const testBase = "https://geo.example/api/uganda/data/v1"

type itemCase struct {
	name string
	path string
	call func(*Client, context.Context, string) (any, error)
}

func itemCases() []itemCase {
	return []itemCase{
		{"FetchDistrict", "/district/abc-123", (*Client).FetchDistrict},
		{"FetchDistrictCounty", "/county/abc-123", (*Client).FetchDistrictCounty},
		{"FetchDistrictSubcounty", "/subcounty/abc-123", (*Client).FetchDistrictSubcounty},
		{"FetchDistrictParish", "/parish/abc-123", (*Client).FetchDistrictParish},
		{"FetchDistrictVillage", "/village/abc-123", (*Client).FetchDistrictVillage},
		{"FetchCountySubcounties", "/subcounties/abc-123", (*Client).FetchCountySubcounties},
		{"FetchCountyParishes", "/parishes/abc-123", (*Client).FetchCountyParishes},
		{"FetchCountyVillages", "/villages/abc-123", (*Client).FetchCountyVillages},
		{"FetchSubcountyParishes", "/parishes/abc-123", (*Client).FetchSubcountyParishes},
		{"FetchSubcountyVillages", "/villages/abc-123", (*Client).FetchSubcountyVillages},
		{"FetchParish", "/parish/abc-123", (*Client).FetchParish},
		{"FetchParishVillages", "/villages/abc-123", (*Client).FetchParishVillages},
		{"FetchVillage", "/village/abc-123", (*Client).FetchVillage},
	}
}

type listCase struct {
	name string
	path string
	call func(*Client, context.Context, ListParams) (any, error)
}

func listCases() []listCase {
	return []listCase{
		{"FetchDistricts", "/districts", (*Client).FetchDistricts},
		{"FetchCounties", "/counties", (*Client).FetchCounties},
		{"FetchSubcounties", "/subcounties", (*Client).FetchSubcounties},
		{"FetchParishes", "/parishes", (*Client).FetchParishes},
		{"FetchVillages", "/villages", (*Client).FetchVillages},
	}
}

func TestItemEndpointsSubstituteUUID(t *testing.T) {
	for _, tc := range itemCases() {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeHTTPClient{}
			c := New("k", WithBaseURL(testBase), WithHTTPClient(fake))
			if _, err := tc.call(c, context.Background(), "abc-123"); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if got, want := fake.lastURL(), testBase+tc.path; got != want {
				t.Fatalf("url = %q, want %q", got, want)
			}
		})
	}
}

func TestListEndpointsApplyQueryParams(t *testing.T) {
	for _, tc := range listCases() {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeHTTPClient{}
			c := New("k", WithBaseURL(testBase), WithHTTPClient(fake))
			if _, err := tc.call(c, context.Background(), ListParams{Limit: Int(25), Page: Int(3), SortOrder: String("desc")}); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}

			u, err := url.Parse(fake.lastURL())
			if err != nil {
				t.Fatalf("parse url: %v", err)
			}
			if !strings.HasSuffix(u.Path, tc.path) {
				t.Fatalf("path = %q, want suffix %q", u.Path, tc.path)
			}
			q := u.Query()
			if len(q) != 3 {
				t.Fatalf("expected exactly 3 query params, got %v", q)
			}
			if q.Get("limit") != "25" || q.Get("page") != "3" || q.Get("sort_order") != "desc" {
				t.Fatalf("unexpected query %v", q)
			}
		})
	}
}

func TestListParamsDefaults(t *testing.T) {
	fake := &fakeHTTPClient{}
	c := New("k", WithBaseURL(testBase), WithHTTPClient(fake))
	if _, err := c.FetchDistricts(context.Background(), ListParams{}); err != nil {
		t.Fatalf("FetchDistricts: %v", err)
	}
	if got, want := fake.lastURL(), testBase+"/districts?limit=100&page=1&sort_order=asc"; got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestListParamsPassThroughUnvalidated(t *testing.T) {
	q := ListParams{Limit: Int(-5), Page: Int(7), SortOrder: String("sideways")}.Query()
	if q.Get("limit") != "-5" || q.Get("sort_order") != "sideways" {
		t.Fatalf("params should pass through unvalidated, got %v", q)
	}
}

func TestListParamsExplicitZeroValuesAreSent(t *testing.T) {
	fake := &fakeHTTPClient{}
	c := New("k", WithBaseURL(testBase), WithHTTPClient(fake))
	params := ListParams{Limit: Int(0), Page: Int(0), SortOrder: String("")}
	if _, err := c.FetchDistricts(context.Background(), params); err != nil {
		t.Fatalf("FetchDistricts: %v", err)
	}
	if got, want := fake.lastURL(), testBase+"/districts?limit=0&page=0&sort_order="; got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestListParamsDefaultsOnlyUnsetFields(t *testing.T) {
	q := ListParams{Page: Int(4)}.Query()
	if q.Get("limit") != "100" || q.Get("page") != "4" || q.Get("sort_order") != "asc" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestEveryEndpointSurfacesFetchError(t *testing.T) {
	cause := errors.New("network is unreachable")
	for _, tc := range itemCases() {
		c := New("k", WithHTTPClient(&fakeHTTPClient{err: cause}))
		_, err := tc.call(c, context.Background(), "abc-123")
		assertFetchError(t, tc.name, err, cause)
	}
	for _, tc := range listCases() {
		c := New("k", WithHTTPClient(&fakeHTTPClient{err: cause}))
		_, err := tc.call(c, context.Background(), ListParams{})
		assertFetchError(t, tc.name, err, cause)
	}
}

func assertFetchError(t *testing.T, name string, err, cause error) {
	t.Helper()
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("%s: expected *FetchError, got %v", name, err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("%s: FetchError does not wrap cause", name)
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("%s: message %q missing %q", name, err, cause)
	}
}

func TestLookupAndFetchByName(t *testing.T) {
	fake := &fakeHTTPClient{}
	c := New("k", WithBaseURL(testBase), WithHTTPClient(fake))

	if _, err := c.Fetch(context.Background(), " Parish-Villages ", "p-1", ListParams{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := fake.lastURL(); got != testBase+"/villages/p-1" {
		t.Fatalf("url = %q", got)
	}

	if _, err := c.Fetch(context.Background(), "regions", "", ListParams{}); err == nil {
		t.Fatalf("expected unknown endpoint error")
	}
	if len(fake.urls) != 1 {
		t.Fatalf("unknown endpoint must not issue a request")
	}
}

func TestEndpointsTableIsComplete(t *testing.T) {
	all := Endpoints()
	if len(all) != len(itemCases())+len(listCases()) {
		t.Fatalf("endpoint table has %d entries", len(all))
	}
	seen := make(map[string]bool, len(all))
	for _, e := range all {
		if seen[e.Name] {
			t.Fatalf("duplicate endpoint %q", e.Name)
		}
		seen[e.Name] = true
		if e.List == strings.Contains(e.Path, "{uuid}") {
			t.Fatalf("endpoint %q: list=%v with path %q", e.Name, e.List, e.Path)
		}
	}

	all[0].Path = "/mutated"
	if e, _ := Lookup(EndpointDistricts); e.Path != "/districts" {
		t.Fatalf("Endpoints must return a copy")
	}
}

func TestURLInsertsUUIDVerbatim(t *testing.T) {
	c := New("k", WithBaseURL(testBase), WithHTTPClient(&fakeHTTPClient{}))
	e, _ := Lookup(EndpointVillage)
	if got := c.URL(e, "a b/c", ListParams{}); got != testBase+"/village/a b/c" {
		t.Fatalf("url = %q", got)
	}
}
