package service

import "storefront/internal/models"

func featuredSummaries() []models.Recipe {
	return []models.Recipe{
		{
			ID:          "summer-salad",
			Title:       "Summer Vegetable Salad",
			Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=500&auto=format",
			Description: "Fresh, crisp, and perfect for warm days",
			Dietary:     []string{"Organic", "Vegan", "Gluten-Free"},
		},
		{
			ID:          "berry-smoothie",
			Title:       "Berry Protein Smoothie",
			Image:       "https://images.unsplash.com/photo-1553530979-572530c22dbc?w=500&auto=format",
			Description: "Start your day with antioxidants and energy",
			Dietary:     []string{"Vegetarian", "Antioxidant-Rich"},
		},
		{
			ID:          "quinoa-bowl",
			Title:       "Organic Quinoa Bowl",
			Image:       "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=500&auto=format",
			Description: "Nutrient-packed complete meal with local vegetables",
			Dietary:     []string{"Organic", "Protein-Rich", "Vegan"},
		},
		{
			ID:          "avocado-toast",
			Title:       "Avocado Toast with Microgreens",
			Image:       "https://images.unsplash.com/photo-1603046891744-1f76eb10aec1?w=500&auto=format",
			Description: "Simple, nourishing breakfast with healthy fats",
			Dietary:     []string{"Vegetarian", "High-Protein", "Healthy Fats"},
		},
		{
			ID:          "roasted-veggies",
			Title:       "Roasted Root Vegetables",
			Image:       "https://images.unsplash.com/photo-1675257163553-7b49d2f4ce0f?w=500&auto=format",
			Description: "Seasonal comfort food loaded with nutrients",
			Dietary:     []string{"Organic", "Vegan", "Gluten-Free", "Local"},
		},
		{
			ID:          "lentil-soup",
			Title:       "Hearty Lentil Soup",
			Image:       "https://images.unsplash.com/photo-1599321989365-3d1af1d2be15?w=500&auto=format",
			Description: "Protein-rich vegan soup perfect for cool days",
			Dietary:     []string{"Organic", "Vegan", "High-Protein"},
		},
	}
}

func featuredDetails() map[string]models.Recipe {
	return map[string]models.Recipe{
		"summer-salad": {
			ID:          "summer-salad",
			Title:       "Summer Vegetable Salad",
			Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=500&auto=format",
			Description: "A refreshing summer salad made with fresh, organic vegetables.",
			Ingredients: []string{
				"2 cups mixed organic greens",
				"1 organic cucumber, sliced",
				"1 organic bell pepper, diced",
				"1 cup cherry tomatoes, halved",
				"1/4 cup red onion, thinly sliced",
				"1/4 cup olive oil",
				"2 tbsp balsamic vinegar",
				"Salt and pepper to taste",
			},
			Instructions: []string{
				"Wash and prepare all vegetables.",
				"Combine greens, cucumber, bell pepper, tomatoes, and onion in a large bowl.",
				"Whisk together olive oil, vinegar, salt, and pepper.",
				"Drizzle dressing over salad and toss gently.",
				"Serve immediately and enjoy!",
			},
			Dietary: []string{"Organic", "Vegan", "Gluten-Free"},
		},
		"berry-smoothie": {
			ID:          "berry-smoothie",
			Title:       "Berry Protein Smoothie",
			Image:       "https://images.unsplash.com/photo-1553530979-572530c22dbc?w=500&auto=format",
			Description: "Start your day with this antioxidant-rich smoothie packed with protein.",
			Ingredients: []string{
				"1 cup mixed organic berries (strawberries, blueberries, raspberries)",
				"1 banana",
				"1 cup organic Greek yogurt",
				"1 tbsp honey or maple syrup",
				"1/2 cup almond milk",
				"1 tbsp chia seeds",
			},
			Instructions: []string{
				"Add all ingredients to a blender.",
				"Blend until smooth and creamy.",
				"Pour into a glass and top with additional berries if desired.",
				"Enjoy immediately!",
			},
			Dietary: []string{"Vegetarian", "Antioxidant-Rich"},
		},
		"quinoa-bowl": {
			ID:          "quinoa-bowl",
			Title:       "Organic Quinoa Bowl",
			Image:       "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=500&auto=format",
			Description: "A nutrient-packed complete meal with local vegetables and protein-rich quinoa.",
			Ingredients: []string{
				"1 cup organic quinoa",
				"2 cups vegetable broth",
				"1 cup organic kale, chopped",
				"1 organic sweet potato, diced and roasted",
				"1/2 cup organic chickpeas, drained and rinsed",
				"1/4 cup sliced almonds",
				"2 tbsp olive oil",
				"1 tbsp lemon juice",
				"Salt and pepper to taste",
			},
			Instructions: []string{
				"Rinse quinoa and cook in vegetable broth according to package instructions.",
				"Roast sweet potato with olive oil at 400°F for 25 minutes.",
				"In a large bowl, combine cooked quinoa, kale, roasted sweet potato, and chickpeas.",
				"Whisk together olive oil, lemon juice, salt, and pepper.",
				"Drizzle dressing over the bowl and top with sliced almonds.",
				"Serve warm or cold.",
			},
			Dietary: []string{"Organic", "Protein-Rich", "Vegan"},
		},
		"avocado-toast": {
			ID:          "avocado-toast",
			Title:       "Avocado Toast with Microgreens",
			Image:       "https://images.unsplash.com/photo-1603046891744-1f76eb10aec1?w=500&auto=format",
			Description: "A simple, nutritious breakfast loaded with healthy fats and protein.",
			Ingredients: []string{
				"2 slices organic whole grain bread",
				"1 ripe avocado",
				"1/4 cup microgreens",
				"2 eggs (optional)",
				"Red pepper flakes",
				"Salt and pepper to taste",
				"Lemon juice",
			},
			Instructions: []string{
				"Toast the bread until golden brown.",
				"Mash the avocado in a bowl with a fork, adding salt, pepper and a squeeze of lemon juice.",
				"Spread the mashed avocado on the toast.",
				"Top with microgreens and red pepper flakes.",
				"For extra protein, add a poached or fried egg on top.",
			},
			Dietary: []string{"Vegetarian", "High-Protein", "Healthy Fats"},
		},
	}
}

// findFeatured returns the bundled recipe for id. Summary-only recipes are
// returned without ingredients or instructions.
func findFeatured(id string) (models.Recipe, bool) {
	if r, ok := featuredDetails()[id]; ok {
		return r, true
	}
	for _, r := range featuredSummaries() {
		if r.ID == id {
			r.Ingredients = []string{}
			r.Instructions = []string{}
			return r, true
		}
	}
	return models.Recipe{}, false
}
