package services

import (
	"context"
	"strings"
)

// Food is one entry of the low glycemic index suggestion list
type Food struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// FoodService answers low-GI food suggestions from a fixed list
type FoodService struct {
	foods []Food
}

func NewFoodService() *FoodService {
	return &FoodService{
		foods: []Food{
			{Name: "Lentils", Group: "legumes"},
			{Name: "Chickpeas", Group: "legumes"},
			{Name: "Black beans", Group: "legumes"},
			{Name: "Steel-cut oats", Group: "grains"},
			{Name: "Quinoa", Group: "grains"},
			{Name: "Barley", Group: "grains"},
			{Name: "Whole-grain bread", Group: "grains"},
			{Name: "Broccoli", Group: "vegetables"},
			{Name: "Spinach", Group: "vegetables"},
			{Name: "Cauliflower", Group: "vegetables"},
			{Name: "Bell peppers", Group: "vegetables"},
			{Name: "Apples", Group: "fruit"},
			{Name: "Berries", Group: "fruit"},
			{Name: "Pears", Group: "fruit"},
			{Name: "Oranges", Group: "fruit"},
			{Name: "Greek yogurt", Group: "dairy"},
			{Name: "Almonds", Group: "nuts and seeds"},
			{Name: "Walnuts", Group: "nuts and seeds"},
			{Name: "Chia seeds", Group: "nuts and seeds"},
		},
	}
}

// Search matches query against name and group; an empty query returns everything
func (fs *FoodService) Search(ctx context.Context, query string) []Food {
	if query == "" {
		return fs.foods
	}

	var results []Food
	queryLower := strings.ToLower(strings.TrimSpace(query))
	for _, food := range fs.foods {
		if strings.Contains(strings.ToLower(food.Name), queryLower) ||
			strings.Contains(strings.ToLower(food.Group), queryLower) {
			results = append(results, food)
		}
	}
	return results
}

// Names lists every food name in catalog order
func (fs *FoodService) Names() []string {
	names := make([]string, len(fs.foods))
	for i, f := range fs.foods {
		names[i] = f.Name
	}
	return names
}
