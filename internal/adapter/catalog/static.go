package catalog

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogSource = (*Static)(nil)

// Static serves the built-in dataset.
type Static struct{}

func NewStatic() Static {
	return Static{}
}

func (Static) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Static.ReadProducts"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cloneProducts(products), nil
}

func (Static) ReadNews(ctx context.Context) ([]domain.NewsItem, error) {
	const op = "Static.ReadNews"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slices.Clone(news), nil
}

func cloneProducts(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		p.Sizes = slices.Clone(p.Sizes)
		p.Colors = slices.Clone(p.Colors)
		out[i] = p
	}
	return out
}

const unsplash = "https://images.unsplash.com/"

var (
	jerseySizes = []string{"S", "M", "L", "XL", "XXL"}
	shoeSizes   = []string{"39", "40", "41", "42", "43", "44", "45"}
)

// Declaration order is the display order: jerseys, shoes, accessories.
var products = []domain.Product{
	{
		ProductID:     "1",
		Name:          "Áo đấu Manchester United 2024/25",
		Price:         1250000,
		OriginalPrice: 1500000,
		Image:         unsplash + "photo-1662096909687-7c64cde3524b?w=1080",
		Category:      domain.CategoryJersey,
		Club:          "manchester-united",
		Sizes:         jerseySizes,
		Colors:        []string{"Đỏ", "Trắng"},
		Description:   "Áo đấu chính thức của Manchester United mùa giải 2024/25. Chất liệu Dri-FIT cao cấp.",
		Rating:        4.8,
		Reviews:       156,
	},
	{
		ProductID:     "4",
		Name:          "Áo đấu Real Madrid Home 2024/25",
		Price:         1300000,
		OriginalPrice: 1600000,
		Image:         unsplash + "photo-1662096909714-e2f206d0a636?w=1080",
		Category:      domain.CategoryJersey,
		Club:          "real-madrid",
		Sizes:         jerseySizes,
		Colors:        []string{"Trắng", "Xanh đậm"},
		Description:   "Áo đấu sân nhà Real Madrid 2024/25. Thiết kế thanh lịch với chất liệu thoáng khí.",
		Rating:        4.9,
		Reviews:       203,
	},
	{
		ProductID:     "5",
		Name:          "Áo đấu Barcelona Home 2024/25",
		Price:         1280000,
		OriginalPrice: 1550000,
		Image:         unsplash + "photo-1731335262206-60fc90a7a4e8?w=1080",
		Category:      domain.CategoryJersey,
		Club:          "barcelona",
		Sizes:         jerseySizes,
		Colors:        []string{"Xanh grana", "Vàng"},
		Description:   "Áo đấu Barcelona sân nhà với sọc truyền thống xanh grana và vàng.",
		Rating:        4.7,
		Reviews:       189,
	},
	{
		ProductID:   "6",
		Name:        "Áo đấu Brazil ĐTQG 2024",
		Price:       1100000,
		Image:       unsplash + "photo-1690841813659-813aa4daaba7?w=1080",
		Category:    domain.CategoryJersey,
		Club:        "brazil",
		Sizes:       jerseySizes,
		Colors:      []string{"Vàng", "Xanh lá"},
		Description: "Áo đấu chính thức đội tuyển Brazil với màu vàng truyền thống.",
		Rating:      4.6,
		Reviews:     145,
	},
	{
		ProductID:   "7",
		Name:        "Áo đấu Argentina ĐTQG 2024",
		Price:       1150000,
		Image:       unsplash + "photo-1731335262206-60fc90a7a4e8?w=1080",
		Category:    domain.CategoryJersey,
		Club:        "argentina",
		Sizes:       jerseySizes,
		Colors:      []string{"Xanh trắng", "Vàng"},
		Description: "Áo đấu Argentina với sọc xanh trắng truyền thống, vô địch World Cup 2022.",
		Rating:      4.8,
		Reviews:     298,
	},
	{
		ProductID:     "8",
		Name:          "Áo đấu Chelsea FC 2024/25",
		Price:         1200000,
		OriginalPrice: 1450000,
		Image:         unsplash + "photo-1662096909687-7c64cde3524b?w=1080",
		Category:      domain.CategoryJersey,
		Club:          "chelsea",
		Sizes:         jerseySizes,
		Colors:        []string{"Xanh dương", "Trắng"},
		Description:   "Áo đấu Chelsea FC với màu xanh dương truyền thống.",
		Rating:        4.5,
		Reviews:       87,
	},

	{
		ProductID:   "2",
		Name:        "Giày Nike Mercurial Vapor",
		Price:       3200000,
		Image:       unsplash + "photo-1674023797405-7bd3826bb471?w=1080",
		Category:    domain.CategoryShoes,
		Club:        "nike",
		Sizes:       shoeSizes,
		Colors:      []string{"Đen", "Xanh"},
		Description: "Giày bóng đá cao cấp Nike Mercurial Vapor với công nghệ Flyknit.",
		Rating:      4.9,
		Reviews:     89,
	},
	{
		ProductID:     "9",
		Name:          "Giày Adidas Predator Edge",
		Price:         2800000,
		OriginalPrice: 3500000,
		Image:         unsplash + "photo-1684355414454-ed132f6c41cd?w=1080",
		Category:      domain.CategoryShoes,
		Club:          "adidas",
		Sizes:         shoeSizes,
		Colors:        []string{"Đen", "Đỏ", "Trắng"},
		Description:   "Giày Adidas Predator Edge với thiết kế răng cưa giúp kiểm soát bóng tốt hơn.",
		Rating:        4.7,
		Reviews:       134,
	},
	{
		ProductID:   "10",
		Name:        "Giày Puma Future Z 1.3",
		Price:       2500000,
		Image:       unsplash + "photo-1631472371826-97091cc38df3?w=1080",
		Category:    domain.CategoryShoes,
		Club:        "puma",
		Sizes:       shoeSizes,
		Colors:      []string{"Vàng neon", "Đen"},
		Description: "Giày Puma Future Z 1.3 với công nghệ FUZIONFIT cho sự linh hoạt tối đa.",
		Rating:      4.6,
		Reviews:     76,
	},
	{
		ProductID:   "11",
		Name:        "Giày Nike Phantom GT2",
		Price:       2900000,
		Image:       unsplash + "photo-1674023797405-7bd3826bb471?w=1080",
		Category:    domain.CategoryShoes,
		Club:        "nike",
		Sizes:       shoeSizes,
		Colors:      []string{"Trắng", "Hồng"},
		Description: "Nike Phantom GT2 Elite với thiết kế asymmetrical lacing cho độ chính xác cao.",
		Rating:      4.8,
		Reviews:     112,
	},
	{
		ProductID:     "12",
		Name:          "Giày Adidas X Speedflow",
		Price:         3100000,
		OriginalPrice: 3600000,
		Image:         unsplash + "photo-1684355414454-ed132f6c41cd?w=1080",
		Category:      domain.CategoryShoes,
		Club:          "adidas",
		Sizes:         shoeSizes,
		Colors:        []string{"Xanh dương", "Cam"},
		Description:   "Adidas X Speedflow thiết kế cho tốc độ với upper siêu nhẹ.",
		Rating:        4.9,
		Reviews:       95,
	},

	{
		ProductID:   "3",
		Name:        "Bóng đá FIFA Quality Pro",
		Price:       850000,
		Image:       unsplash + "photo-1687407556702-7e9842d75c1c?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "fifa",
		Sizes:       []string{"Size 5"},
		Colors:      []string{"Trắng/Đen"},
		Description: "Bóng đá chất lượng FIFA Quality Pro, phù hợp cho thi đấu chuyên nghiệp.",
		Rating:      4.7,
		Reviews:     234,
	},
	{
		ProductID:     "13",
		Name:          "Găng tay thủ môn Adidas Predator",
		Price:         650000,
		OriginalPrice: 800000,
		Image:         unsplash + "photo-1695194641288-b30eb6bd9eb5?w=1080",
		Category:      domain.CategoryAccessories,
		Club:          "adidas",
		Sizes:         []string{"7", "8", "9", "10", "11"},
		Colors:        []string{"Đen/Xanh", "Trắng/Đỏ"},
		Description:   "Găng tay thủ môn Adidas Predator với công nghệ URG-T 2.0 grip.",
		Rating:        4.8,
		Reviews:       67,
	},
	{
		ProductID:   "14",
		Name:        "Tất bóng đá Nike Dri-FIT",
		Price:       120000,
		Image:       unsplash + "photo-1684707878583-1d044d9ca708?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "nike",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Đen", "Trắng", "Xanh", "Đỏ"},
		Description: "Tất bóng đá Nike Dri-FIT chất lượng cao, thấm hút mồ hôi tốt.",
		Rating:      4.5,
		Reviews:     189,
	},
	{
		ProductID:   "15",
		Name:        "Bảo vệ ống đồng Nike Mercurial",
		Price:       350000,
		Image:       unsplash + "photo-1716041189933-046d12d69e39?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "nike",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Đen", "Trắng", "Xanh"},
		Description: "Bảo vệ ống đồng Nike Mercurial nhẹ và bền, bảo vệ tối ưu cho cầu thủ.",
		Rating:      4.6,
		Reviews:     143,
	},
	{
		ProductID:   "16",
		Name:        "Băng đội trưởng Adidas",
		Price:       80000,
		Image:       unsplash + "photo-1687407556702-7e9842d75c1c?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "adidas",
		Sizes:       []string{"One Size"},
		Colors:      []string{"Đỏ", "Vàng", "Xanh", "Đen"},
		Description: "Băng đội trưởng Adidas chính hãng với chất liệu co giãn thoải mái.",
		Rating:      4.4,
		Reviews:     56,
	},
	{
		ProductID:   "17",
		Name:        "Túi đựng giày bóng đá Nike",
		Price:       180000,
		Image:       unsplash + "photo-1687407556702-7e9842d75c1c?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "nike",
		Sizes:       []string{"One Size"},
		Colors:      []string{"Đen", "Xanh dương"},
		Description: "Túi đựng giày Nike với thiết kế thông thoáng, tiện lợi cho việc mang theo.",
		Rating:      4.3,
		Reviews:     78,
	},
	{
		ProductID:   "18",
		Name:        "Bóng đá training Adidas Tango",
		Price:       450000,
		Image:       unsplash + "photo-1687407556702-7e9842d75c1c?w=1080",
		Category:    domain.CategoryAccessories,
		Club:        "adidas",
		Sizes:       []string{"Size 5"},
		Colors:      []string{"Trắng/Đen", "Cam/Đen"},
		Description: "Bóng đá training Adidas Tango với thiết kế cổ điển, phù hợp cho luyện tập.",
		Rating:      4.5,
		Reviews:     167,
	},
}

var news = []domain.NewsItem{
	{
		NewsID:   "1",
		Title:    "Manchester United thắng đậm trong trận derby",
		Excerpt:  "Chiến thắng ấn tượng 3-0 trước Manchester City tại Old Trafford...",
		Image:    unsplash + "photo-1634587653129-2a96ebef737b?w=1080",
		Date:     time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		Category: "Kết quả trận đấu",
	},
	{
		NewsID:   "2",
		Title:    "Messi lập hat-trick trong chiến thắng của PSG",
		Excerpt:  "Siêu sao Argentina tiếp tục thể hiện phong độ đỉnh cao...",
		Image:    unsplash + "photo-1634587653129-2a96ebef737b?w=1080",
		Date:     time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC),
		Category: "Tin tức CLB",
	},
}
