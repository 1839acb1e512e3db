package ugdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied to list endpoints when a ListParams field is nil.
const (
	DefaultLimit     = 100
	DefaultPage      = 1
	DefaultSortOrder = "asc"

	uuidPlaceholder = "{uuid}"
)

// Endpoint names accepted by Lookup and Client.Fetch.
const (
	EndpointDistricts         = "districts"
	EndpointDistrict          = "district"
	EndpointDistrictCounty    = "district-county"
	EndpointDistrictSubcounty = "district-subcounty"
	EndpointDistrictParish    = "district-parish"
	EndpointDistrictVillage   = "district-village"
	EndpointCounties          = "counties"
	EndpointCountySubcounties = "county-subcounties"
	EndpointCountyParishes    = "county-parishes"
	EndpointCountyVillages    = "county-villages"
	EndpointSubcounties       = "subcounties"
	EndpointSubcountyParishes = "subcounty-parishes"
	EndpointSubcountyVillages = "subcounty-villages"
	EndpointParishes          = "parishes"
	EndpointParish            = "parish"
	EndpointParishVillages    = "parish-villages"
	EndpointVillages          = "villages"
	EndpointVillage           = "village"
)

// Endpoint maps a resource name to its path template.
// List endpoints take ListParams; the rest take a UUID substituted for {uuid}.
type Endpoint struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	List        bool   `json:"list" yaml:"list"`
	Description string `json:"description" yaml:"description"`
}

var endpoints = []Endpoint{
	{Name: EndpointDistricts, Path: "/districts", List: true, Description: "all districts"},
	{Name: EndpointDistrict, Path: "/district/{uuid}", Description: "a district by uuid"},
	{Name: EndpointDistrictCounty, Path: "/county/{uuid}", Description: "county of a district"},
	{Name: EndpointDistrictSubcounty, Path: "/subcounty/{uuid}", Description: "sub-county of a district"},
	{Name: EndpointDistrictParish, Path: "/parish/{uuid}", Description: "parish of a district"},
	{Name: EndpointDistrictVillage, Path: "/village/{uuid}", Description: "village of a district"},
	{Name: EndpointCounties, Path: "/counties", List: true, Description: "all counties"},
	{Name: EndpointCountySubcounties, Path: "/subcounties/{uuid}", Description: "sub-counties of a county"},
	{Name: EndpointCountyParishes, Path: "/parishes/{uuid}", Description: "parishes of a county"},
	{Name: EndpointCountyVillages, Path: "/villages/{uuid}", Description: "villages of a county"},
	{Name: EndpointSubcounties, Path: "/subcounties", List: true, Description: "all sub-counties"},
	{Name: EndpointSubcountyParishes, Path: "/parishes/{uuid}", Description: "parishes of a sub-county"},
	{Name: EndpointSubcountyVillages, Path: "/villages/{uuid}", Description: "villages of a sub-county"},
	{Name: EndpointParishes, Path: "/parishes", List: true, Description: "all parishes"},
	{Name: EndpointParish, Path: "/parish/{uuid}", Description: "a parish by uuid"},
	{Name: EndpointParishVillages, Path: "/villages/{uuid}", Description: "villages of a parish"},
	{Name: EndpointVillages, Path: "/villages", List: true, Description: "all villages"},
	{Name: EndpointVillage, Path: "/village/{uuid}", Description: "a village by uuid"},
}

var endpointsIdx = func() map[string]Endpoint {
	idx := make(map[string]Endpoint, len(endpoints))
	for _, e := range endpoints {
		idx[e.Name] = e
	}
	return idx
}()

// Endpoints returns a copy of the endpoint table in declaration order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// Lookup returns the endpoint registered under name (case-insensitive).
func Lookup(name string) (Endpoint, bool) {
	e, ok := endpointsIdx[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// ListParams are the paging and ordering parameters of list endpoints.
// A nil field falls back to DefaultLimit, DefaultPage or DefaultSortOrder;
// any value that is set, zero included, is sent as given.
type ListParams struct {
	Limit     *int
	Page      *int
	SortOrder *string
}

// Int returns a pointer to v for use in ListParams.
func Int(v int) *int { return &v }

// String returns a pointer to v for use in ListParams.
func String(v string) *string { return &v }

func (p ListParams) resolved() (limit, page int, sortOrder string) {
	limit, page, sortOrder = DefaultLimit, DefaultPage, DefaultSortOrder
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Page != nil {
		page = *p.Page
	}
	if p.SortOrder != nil {
		sortOrder = *p.SortOrder
	}
	return limit, page, sortOrder
}

// Query encodes the parameters as limit, page and sort_order.
func (p ListParams) Query() url.Values {
	limit, page, sortOrder := p.resolved()
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort_order", sortOrder)
	return q
}

// URL builds the request URL for e. uuid is inserted verbatim; params apply to list endpoints only.
func (c *Client) URL(e Endpoint, uuid string, params ListParams) string {
	if e.List {
		return c.baseURL + e.Path + "?" + params.Query().Encode()
	}
	return c.baseURL + strings.ReplaceAll(e.Path, uuidPlaceholder, uuid)
}

// Fetch resolves the endpoint by name and fetches it.
func (c *Client) Fetch(ctx context.Context, name, uuid string, params ListParams) (any, error) {
	e, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", name)
	}
	return c.FetchData(ctx, c.URL(e, uuid, params))
}

func (c *Client) list(ctx context.Context, name string, params ListParams) (any, error) {
	return c.FetchData(ctx, c.URL(endpointsIdx[name], "", params))
}

func (c *Client) item(ctx context.Context, name, uuid string) (any, error) {
	return c.FetchData(ctx, c.URL(endpointsIdx[name], uuid, ListParams{}))
}

// FetchDistricts lists districts.
func (c *Client) FetchDistricts(ctx context.Context, params ListParams) (any, error) {
	return c.list(ctx, EndpointDistricts, params)
}

// FetchDistrict fetches a single district.
func (c *Client) FetchDistrict(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointDistrict, uuid)
}

// FetchDistrictCounty fetches the county for a district uuid.
func (c *Client) FetchDistrictCounty(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointDistrictCounty, uuid)
}

// FetchDistrictSubcounty fetches the sub-county for a district uuid.
func (c *Client) FetchDistrictSubcounty(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointDistrictSubcounty, uuid)
}

// FetchDistrictParish fetches the parish for a district uuid.
func (c *Client) FetchDistrictParish(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointDistrictParish, uuid)
}

// FetchDistrictVillage fetches the village for a district uuid.
func (c *Client) FetchDistrictVillage(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointDistrictVillage, uuid)
}

// FetchCounties lists counties.
func (c *Client) FetchCounties(ctx context.Context, params ListParams) (any, error) {
	return c.list(ctx, EndpointCounties, params)
}

// FetchCountySubcounties fetches the sub-counties of a county.
func (c *Client) FetchCountySubcounties(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointCountySubcounties, uuid)
}

// FetchCountyParishes fetches the parishes of a county.
func (c *Client) FetchCountyParishes(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointCountyParishes, uuid)
}

// FetchCountyVillages fetches the villages of a county.
func (c *Client) FetchCountyVillages(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointCountyVillages, uuid)
}

// FetchSubcounties lists sub-counties.
func (c *Client) FetchSubcounties(ctx context.Context, params ListParams) (any, error) {
	return c.list(ctx, EndpointSubcounties, params)
}

// FetchSubcountyParishes fetches the parishes of a sub-county.
func (c *Client) FetchSubcountyParishes(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointSubcountyParishes, uuid)
}

// FetchSubcountyVillages fetches the villages of a sub-county.
func (c *Client) FetchSubcountyVillages(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointSubcountyVillages, uuid)
}

// FetchParishes lists parishes.
func (c *Client) FetchParishes(ctx context.Context, params ListParams) (any, error) {
	return c.list(ctx, EndpointParishes, params)
}

// FetchParish fetches a single parish.
func (c *Client) FetchParish(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointParish, uuid)
}

// FetchParishVillages fetches the villages of a parish.
func (c *Client) FetchParishVillages(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointParishVillages, uuid)
}

// FetchVillages lists villages.
func (c *Client) FetchVillages(ctx context.Context, params ListParams) (any, error) {
	return c.list(ctx, EndpointVillages, params)
}

// FetchVillage fetches a single village.
func (c *Client) FetchVillage(ctx context.Context, uuid string) (any, error) {
	return c.item(ctx, EndpointVillage, uuid)
}
