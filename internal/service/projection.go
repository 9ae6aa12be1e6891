package service

import (
	"math"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
)

// ViewerFlags 访问者相对于某个菜谱的状态
type ViewerFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
	IsSubscribed     bool // 是否订阅了菜谱作者
}

// ToUserProfile 用户资料投影
func ToUserProfile(user *model.User, isSubscribed bool) dto.UserProfile {
	return dto.UserProfile{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// ToUserInfo 注册结果投影
func ToUserInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToIngredientInfo 食材投影
func ToIngredientInfo(ing *model.Ingredient) dto.IngredientInfo {
	return dto.IngredientInfo{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

// ToTagInfo 标签投影
func ToTagInfo(tag *model.Tag) dto.TagInfo {
	return dto.TagInfo{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

// ToRecipeShort 菜谱简要投影
func ToRecipeShort(recipe *model.Recipe) dto.RecipeShort {
	return dto.RecipeShort{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// ToRecipeDetail 菜谱详情投影，食材行展开为食材名称与单位
func ToRecipeDetail(recipe *model.Recipe, flags ViewerFlags) dto.RecipeDetail {
	tags := make([]dto.TagInfo, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, ToTagInfo(&recipe.Tags[i]))
	}

	lines := make([]dto.RecipeIngredientInfo, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, dto.RecipeIngredientInfo{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return dto.RecipeDetail{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           ToUserProfile(&recipe.Author, flags.IsSubscribed),
		Ingredients:      lines,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// ToSubscriptionInfo 订阅作者投影
func ToSubscriptionInfo(author *model.User, isSubscribed bool, recipes []model.Recipe, recipesCount int64) dto.SubscriptionInfo {
	shorts := make([]dto.RecipeShort, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, ToRecipeShort(&recipes[i]))
	}

	return dto.SubscriptionInfo{
		Email:        author.Email,
		ID:           author.ID,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: isSubscribed,
		Recipes:      shorts,
		RecipesCount: recipesCount,
	}
}

// totalPages 计算总页数
func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// pageOffset 计算分页偏移量，page 按 pageSize 钳制，避免乘法溢出为负数
func pageOffset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if maxPage := math.MaxInt32 / pageSize; page > maxPage {
		page = maxPage
	}
	return (page - 1) * pageSize
}
