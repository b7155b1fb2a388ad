// Package catalog serves the store's product listing: upstream products with
// a built-in sample fallback, free-text search and fixed category sections.
package catalog

// Imagery points at a product picture on the media CDN.
type Imagery struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Filename string `json:"filename"`
}

type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Imagery     Imagery `json:"imagery"`
}

const sampleImage = "/tiendaEjem.jpeg"

// SampleProducts is shown when the product API has nothing to offer.
func SampleProducts() []Product {
	return []Product{
		{
			ID:          "507f1f77bcf86cd799439011",
			Name:        "Computadora de Oficina",
			Description: "Computadora básica de trabajo ideal para tareas administrativas",
			Category:    "oficina",
			Price:       599.99,
			Stock:       10,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_1", Filename: "computadora.jpg"},
		},
		{
			ID:          "507f1f77bcf86cd799439012",
			Name:        "Laptop Corporativa",
			Description: "Laptop potente para trabajo en movimiento",
			Category:    "tecnologia",
			Price:       899.99,
			Stock:       5,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_2", Filename: "laptop.jpg"},
		},
		{
			ID:          "507f1f77bcf86cd799439013",
			Name:        "Set de Bolígrafos Premium",
			Description: "Conjunto de bolígrafos de alta calidad para ejecutivos",
			Category:    "papeleria",
			Price:       29.99,
			Stock:       50,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_3", Filename: "boligrafos.jpg"},
		},
		{
			ID:          "507f1f77bcf86cd799439014",
			Name:        "Silla Ergonómica",
			Description: "Silla de oficina con soporte lumbar ajustable",
			Category:    "oficina",
			Price:       249.99,
			Stock:       8,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_4", Filename: "silla.jpg"},
		},
		{
			ID:          "507f1f77bcf86cd799439015",
			Name:        "Monitor 27 pulgadas 4K",
			Description: "Monitor profesional con panel IPS y alta resolución",
			Category:    "tecnologia",
			Price:       349.99,
			Stock:       12,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_5", Filename: "monitor.jpg"},
		},
		{
			ID:          "507f1f77bcf86cd799439016",
			Name:        "Cuadernos Executivos",
			Description: "Pack de 3 cuadernos premium con tapas de cuero",
			Category:    "papeleria",
			Price:       39.99,
			Stock:       20,
			Imagery:     Imagery{URL: sampleImage, PublicID: "sample_6", Filename: "cuadernos.jpg"},
		},
	}
}
