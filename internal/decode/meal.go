package decode

import "github.com/Zuo-Peng/caralog/internal/source"

// FlattenMeal unpacks the single meal item of a food entry into its name and
// the ordered names of its food tags. The returned tags are never nil.
func FlattenMeal(items []source.MealItem) (string, []string, error) {
	if len(items) != 1 {
		return "", nil, &CardinalityError{Count: len(items)}
	}

	meal := items[0]
	tags := make([]string, 0, len(meal.FoodTags))
	for _, f := range meal.FoodTags {
		tags = append(tags, f.Name)
	}
	return meal.Name, tags, nil
}
