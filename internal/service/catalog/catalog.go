// internal/service/catalog/catalog.go
package catalog

import (
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

const partnerDiscount = "Partner-rabatt: -2 öre/kWh"

var products = []signup.Product{
	{ID: "1", Name: "Bixia Fastpris", Type: signup.ProductTypeFixed, Description: "Ett tryggt val med samma pris hela avtalsperioden. Ingen bindningstid."},
	{ID: "2", Name: "Bixia Rörligt Pris", Type: signup.ProductTypeVariable, Description: "Följer elbörsens svängningar. Passar dig som vill vara aktiv och flexibel."},
	{ID: "3", Name: "Bixia Kvartspris", Type: signup.ProductTypeQuarterly, Description: "Ett mellanting mellan fast och rörligt. Priset sätts kvartalsvis."},
	{ID: "c1", Name: "Bixia Förvaltat Pris", Type: signup.ProductTypeManaged, Description: "En tryggare portföljförvaltning som sprider riskerna över tid.", IsCompanyOnly: true},
	{ID: "d1", Name: "Bixia Fastpris (Partner)", Type: signup.ProductTypeFixed, Description: "Samma trygghet som Fastpris men med exklusiv partner-rabatt.", IsDiscounted: true, DiscountText: partnerDiscount},
	{ID: "d2", Name: "Bixia Rörligt (Partner)", Type: signup.ProductTypeVariable, Description: "Rörligt elpris med förmånlig partner-rabatt på påslaget.", IsDiscounted: true, DiscountText: partnerDiscount},
	{ID: "d3", Name: "Bixia Kvartspris (Partner)", Type: signup.ProductTypeQuarterly, Description: "Kvartspris för samarbetspartners. Optimerat pris med rabatt.", IsDiscounted: true, DiscountText: partnerDiscount},
	{ID: "cd1", Name: "Bixia Förvaltat Pris (Partner)", Type: signup.ProductTypeManaged, Description: "Förvaltat elpris med förmånlig partner-rabatt.", IsDiscounted: true, IsCompanyOnly: true, DiscountText: partnerDiscount},
}

var northPrices = map[string]string{
	"1": "85.50", "2": "75.20", "3": "80.00",
	"d1": "83.50", "d2": "73.20", "d3": "78.00",
	"c1": "79.50", "cd1": "77.50",
}

// prices are öre/kWh per price region.
var prices = map[signup.Elomrade]map[string]decimal.Decimal{
	signup.SE1: mustPrices(northPrices),
	signup.SE2: mustPrices(northPrices),
	signup.SE3: mustPrices(map[string]string{
		"1": "115.00", "2": "95.50", "3": "105.25",
		"d1": "113.00", "d2": "93.50", "d3": "103.25",
		"c1": "100.50", "cd1": "98.50",
	}),
	signup.SE4: mustPrices(map[string]string{
		"1": "125.00", "2": "105.00", "3": "115.50",
		"d1": "123.00", "d2": "103.00", "d3": "113.50",
		"c1": "110.50", "cd1": "108.50",
	}),
}

func mustPrices(in map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for id, p := range in {
		out[id] = decimal.RequireFromString(p)
	}
	return out
}

// Query selects a view of the catalog.
type Query struct {
	Region                signup.Elomrade
	Company               bool
	IncludeRestrictedFast bool
}

// Products lists the products offered in a region with that region's prices.
// Unknown regions fall back to SE3. Private customers never see company-only
// products and get no fixed price in SE1 and SE2 unless explicitly asked for.
// Company customers see managed products but no fixed price.
func Products(q Query) []signup.Product {
	region := q.Region
	if !region.Valid() {
		region = signup.DefaultElomrade
	}
	regional := prices[region]

	out := make([]signup.Product, 0, len(products))
	for _, p := range products {
		if !offered(p, region, q) {
			continue
		}
		p.PricePerKwh = regional[p.ID]
		out = append(out, p)
	}
	return out
}

func offered(p signup.Product, region signup.Elomrade, q Query) bool {
	if q.Company {
		return p.Type != signup.ProductTypeFixed
	}
	if p.IsCompanyOnly {
		return false
	}
	if p.Type == signup.ProductTypeFixed && (region == signup.SE1 || region == signup.SE2) {
		return q.IncludeRestrictedFast
	}
	return true
}

// Find looks up a product in the given view.
func Find(q Query, id string) (signup.Product, error) {
	for _, p := range Products(q) {
		if p.ID == id {
			return p, nil
		}
	}
	return signup.Product{}, fmt.Errorf("product %q in %s: %w", id, q.Region, xerrors.ErrNotFound)
}

// Alternatives are the non-discounted products of a region, offered when the
// chosen product is unavailable after a region change.
func Alternatives(region signup.Elomrade) []signup.Product {
	var out []signup.Product
	for _, p := range Products(Query{Region: region}) {
		if !p.IsDiscounted {
			out = append(out, p)
		}
	}
	return out
}
