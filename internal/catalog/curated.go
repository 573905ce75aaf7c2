package catalog

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

func amount(v float64) *float64 { return &v }

func nutrition(calories, protein, carbs, fat, fiber float64) *models.Nutrition {
	return &models.Nutrition{
		Calories: amount(calories),
		Protein:  amount(protein),
		Carbs:    amount(carbs),
		Fat:      amount(fat),
		Fiber:    amount(fiber),
	}
}

// CuratedProducts returns the bundled product list served when the remote
// catalog cannot be reached. Each call returns a fresh slice.
func CuratedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Organic Avocado",
			Price:       decimal.RequireFromString("2.99"),
			Description: "Fresh, locally sourced organic avocados. Rich in healthy fats and perfect for guacamole or toast.",
			ImageURL:    "https://images.unsplash.com/photo-1523049673857-eb18f1d7b578?w=500&auto=format",
			Category:    models.CategoryFruits,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(160, 2, 9, 15, 7),
			Sourcing:    "Grown by sustainable family farms within 100 miles of our distribution center.",
		},
		{
			ID:          "2",
			Name:        "Organic Kale Bunch",
			Price:       decimal.RequireFromString("3.49"),
			Description: "Nutrient-dense organic kale. Perfect for salads, smoothies, or sautéed as a healthy side dish.",
			ImageURL:    "https://images.unsplash.com/photo-1524179091875-bf99a9a6af57?w=500&auto=format",
			Category:    models.CategoryVegetables,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(33, 2.9, 6.7, 0.5, 1.3),
			Sourcing:    "Harvested from our partner farms using regenerative agriculture practices.",
		},
		{
			ID:          "3",
			Name:        "Organic Greek Yogurt",
			Price:       decimal.RequireFromString("4.99"),
			Description: "Creamy, protein-rich organic Greek yogurt. Made from the milk of pasture-raised cows.",
			ImageURL:    "https://images.unsplash.com/photo-1488477181946-6428a0291777?w=500&auto=format",
			Category:    models.CategoryDairy,
			Organic:     true,
			Vegan:       false,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(120, 15, 9, 5, 0),
			Sourcing:    "Made with milk from family-owned dairy farms committed to ethical animal care.",
		},
		{
			ID:          "4",
			Name:        "Organic Quinoa",
			Price:       decimal.RequireFromString("5.49"),
			Description: "Protein-packed ancient grain, perfect for salads, bowls, and sides.",
			ImageURL:    "https://images.unsplash.com/photo-1586201375761-83865001e8d7?w=500&auto=format",
			Category:    models.CategoryGrains,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       false,
			Nutrition:   nutrition(120, 4, 21, 2, 3),
			Sourcing:    "Sourced from certified organic farmers using traditional cultivation methods.",
		},
		{
			ID:          "5",
			Name:        "Local Honey",
			Price:       decimal.RequireFromString("7.99"),
			Description: "Raw, unfiltered honey from local beekeepers. Perfect for teas, baking, or drizzled on breakfast.",
			ImageURL:    "https://images.unsplash.com/photo-1587049332298-1c42e83937a7?w=500&auto=format",
			Category:    models.CategoryOther,
			Organic:     true,
			Vegan:       false,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(64, 0, 17, 0, 0),
			Sourcing:    "Produced by local beekeepers supporting pollinator health in our community.",
		},
		{
			ID:          "6",
			Name:        "Organic Strawberries",
			Price:       decimal.RequireFromString("4.99"),
			Description: "Sweet, juicy organic strawberries. Perfect for snacking, smoothies, or desserts.",
			ImageURL:    "https://images.unsplash.com/photo-1518635017498-87f514b751ba?w=500&auto=format",
			Category:    models.CategoryFruits,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(50, 1, 12, 0, 3),
			Sourcing:    "Grown without synthetic pesticides on local family farms.",
		},
		{
			ID:          "7",
			Name:        "Organic Brown Rice",
			Price:       decimal.RequireFromString("3.49"),
			Description: "Whole grain, nutrient-rich organic brown rice. A versatile staple for countless healthy meals.",
			ImageURL:    "https://images.unsplash.com/photo-1536304993881-ff6e9eefa2a6?w=500&auto=format",
			Category:    models.CategoryGrains,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       false,
			Nutrition:   nutrition(215, 5, 45, 2, 4),
			Sourcing:    "Sourced from sustainable farms committed to water conservation.",
		},
		{
			ID:          "8",
			Name:        "Organic Bell Peppers",
			Price:       decimal.RequireFromString("3.99"),
			Description: "Crisp, colorful organic bell peppers. Great for salads, stir-fries, or roasting.",
			ImageURL:    "https://images.unsplash.com/photo-1563565375-f3fdfdbefa83?w=500&auto=format",
			Category:    models.CategoryVegetables,
			Organic:     true,
			Vegan:       true,
			GlutenFree:  true,
			Local:       true,
			Nutrition:   nutrition(30, 1, 7, 0, 2),
			Sourcing:    "Grown in organic greenhouses by regional farmers.",
		},
	}
}

// FindCurated looks id up in the curated list.
func FindCurated(id models.ProductID) (models.Product, bool) {
	for _, p := range CuratedProducts() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
