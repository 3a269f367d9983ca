package validation

type Cart struct {
	Lines []CartLine
}

type CartLine struct {
	Quantity    int
	Merchandise Merchandise
}

// Merchandise is implemented by ProductVariant and OtherMerchandise only.
type Merchandise interface {
	isMerchandise()
}

type Product struct {
	Title string
}

type ProductVariant struct {
	ID      string
	Product Product
}

func (ProductVariant) isMerchandise() {}

// OtherMerchandise covers every merchandise kind that is not a product variant.
type OtherMerchandise struct {
	TypeName string
}

func (OtherMerchandise) isMerchandise() {}
