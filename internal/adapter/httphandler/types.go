package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/money"
)

const dateLayout = "2006-01-02"

type (
	Product struct {
		ProductID            string   `json:"product_id"`
		Name                 string   `json:"name"`
		Price                int64    `json:"price"`
		PriceDisplay         string   `json:"price_display"`
		OriginalPrice        int64    `json:"original_price,omitempty"`
		OriginalPriceDisplay string   `json:"original_price_display,omitempty"`
		DiscountPercent      int      `json:"discount_percent,omitempty"`
		Image                string   `json:"image"`
		Category             string   `json:"category"`
		Club                 string   `json:"club"`
		Sizes                []string `json:"sizes"`
		Colors               []string `json:"colors"`
		DefaultSize          string   `json:"default_size"`
		DefaultColor         string   `json:"default_color"`
		Description          string   `json:"description"`
		Rating               float64  `json:"rating"`
		Reviews              int      `json:"reviews"`
	}

	ProductList struct {
		Filter   FilterCriteria `json:"filter"`
		Total    int            `json:"total"`
		Products []Product      `json:"products"`
	}

	Popularity struct {
		ProductID   string `json:"product_id"`
		AddedToCart int64  `json:"added_to_cart"`
	}

	NewsItem struct {
		NewsID   string `json:"news_id"`
		Title    string `json:"title"`
		Excerpt  string `json:"excerpt"`
		Image    string `json:"image"`
		Date     string `json:"date"`
		Category string `json:"category"`
	}
)

type (
	FilterCriteria struct {
		Category string `json:"category"`
		Club     string `json:"club"`
		Price    string `json:"price"`
	}

	FilterOption struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	FilterOptions struct {
		Categories    []FilterOption `json:"categories"`
		Clubs         []FilterOption `json:"clubs"`
		PriceBrackets []FilterOption `json:"price_brackets"`
	}
)

type (
	CartLine struct {
		ProductID       string `json:"product_id"`
		Name            string `json:"name"`
		Image           string `json:"image"`
		Size            string `json:"size"`
		Color           string `json:"color"`
		Quantity        int    `json:"quantity"`
		Price           int64  `json:"price"`
		PriceDisplay    string `json:"price_display"`
		Subtotal        int64  `json:"subtotal"`
		SubtotalDisplay string `json:"subtotal_display"`
	}

	Cart struct {
		Lines              []CartLine `json:"lines"`
		TotalItems         int        `json:"total_items"`
		TotalPrice         int64      `json:"total_price"`
		TotalPriceDisplay  string     `json:"total_price_display"`
		ShippingFee        int64      `json:"shipping_fee"`
		ShippingFeeDisplay string     `json:"shipping_fee_display"`
		GrandTotal         int64      `json:"grand_total"`
		GrandTotalDisplay  string     `json:"grand_total_display"`
	}

	AddItemRequest struct {
		ProductID string `json:"product_id"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}

	UpdateQuantityRequest struct {
		Quantity *int `json:"quantity"`
	}
)

func fromDomainProduct(p domain.Product) Product {
	v := Product{
		ProductID:    p.ProductID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: money.FormatVND(p.Price),
		Image:        p.Image,
		Category:     string(p.Category),
		Club:         p.Club,
		Sizes:        p.Sizes,
		Colors:       p.Colors,
		DefaultSize:  p.DefaultSize(),
		DefaultColor: p.DefaultColor(),
		Description:  p.Description,
		Rating:       p.Rating,
		Reviews:      p.Reviews,
	}
	if p.HasDiscount() {
		v.OriginalPrice = p.OriginalPrice
		v.OriginalPriceDisplay = money.FormatVND(p.OriginalPrice)
		v.DiscountPercent = p.DiscountPercent()
	}
	return v
}

func fromDomainProducts(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = fromDomainProduct(p)
	}
	return vs
}

func fromDomainNews(ns []domain.NewsItem) []NewsItem {
	vs := make([]NewsItem, len(ns))
	for i, n := range ns {
		vs[i] = NewsItem{
			NewsID:   n.NewsID,
			Title:    n.Title,
			Excerpt:  n.Excerpt,
			Image:    n.Image,
			Date:     n.Date.Format(dateLayout),
			Category: n.Category,
		}
	}
	return vs
}

func fromDomainCriteria(c domain.FilterCriteria) FilterCriteria {
	return FilterCriteria{
		Category: orMatchAll(c.Category),
		Club:     orMatchAll(c.Club),
		Price:    orMatchAll(string(c.Price)),
	}
}

func (c FilterCriteria) toDomain() (domain.FilterCriteria, error) {
	b, err := domain.ParsePriceBracket(c.Price)
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	return domain.FilterCriteria{
		Category: c.Category,
		Club:     c.Club,
		Price:    b,
	}, nil
}

func fromDomainOptions(o domain.FilterOptions) FilterOptions {
	conv := func(opts []domain.FilterOption) []FilterOption {
		vs := make([]FilterOption, len(opts))
		for i, opt := range opts {
			vs[i] = FilterOption{Value: opt.Value, Label: opt.Label}
		}
		return vs
	}
	return FilterOptions{
		Categories:    conv(o.Categories),
		Clubs:         conv(o.Clubs),
		PriceBrackets: conv(o.PriceBrackets),
	}
}

func fromDomainCart(s domain.CartSummary) Cart {
	lines := make([]CartLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = CartLine{
			ProductID:       l.ProductID,
			Name:            l.Name,
			Image:           l.Image,
			Size:            l.Size,
			Color:           l.Color,
			Quantity:        l.Quantity,
			Price:           l.Price,
			PriceDisplay:    money.FormatVND(l.Price),
			Subtotal:        l.Subtotal(),
			SubtotalDisplay: money.FormatVND(l.Subtotal()),
		}
	}
	return Cart{
		Lines:              lines,
		TotalItems:         s.TotalItems,
		TotalPrice:         s.TotalPrice,
		TotalPriceDisplay:  money.FormatVND(s.TotalPrice),
		ShippingFee:        s.ShippingFee,
		ShippingFeeDisplay: money.FormatVND(s.ShippingFee),
		GrandTotal:         s.GrandTotal(),
		GrandTotalDisplay:  money.FormatVND(s.GrandTotal()),
	}
}

func orMatchAll(v string) string {
	if v == "" {
		return domain.MatchAll
	}
	return v
}
