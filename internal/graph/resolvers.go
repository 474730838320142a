package graph

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/feedgraph/backend/internal/models"
)

// Every resolver is a pass-through to the ORM: one query, no branching
// beyond not-found handling on nullable fields. Errors propagate unmodified
// and surface in the response's errors array.

func resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var users []*models.User
	if err := gc.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func resolveUser(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := gc.DB.First(&user, p.Args["id"]).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func resolveFeed(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var posts []*models.Post
	if err := gc.DB.Where("published = ?", true).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func resolveDrafts(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var posts []*models.Post
	if err := gc.DB.Where("published = ?", false).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func resolvePost(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var post models.Post
	if err := gc.DB.First(&post, p.Args["id"]).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func resolveUserPosts(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	user, ok := p.Source.(*models.User)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for User.posts", p.Source)
	}
	var posts []*models.Post
	if err := gc.DB.Where("author_id = ?", user.ID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func resolveUserProfile(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	user, ok := p.Source.(*models.User)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for User.profile", p.Source)
	}
	var profile models.Profile
	if err := gc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func resolveProfileUser(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	profile, ok := p.Source.(*models.Profile)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for Profile.user", p.Source)
	}
	var user models.User
	if err := gc.DB.First(&user, profile.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func resolvePostAuthor(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	post, ok := p.Source.(*models.Post)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for Post.author", p.Source)
	}
	var user models.User
	if err := gc.DB.First(&user, post.AuthorID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func resolveSignupUser(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: p.Args["email"].(string)}
	if name, ok := p.Args["name"].(string); ok {
		user.Name = &name
	}
	if err := gc.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func resolveCreateDraft(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var author models.User
	if err := gc.DB.Where("email = ?", p.Args["authorEmail"]).First(&author).Error; err != nil {
		return nil, err
	}
	post := models.Post{
		Title:    p.Args["title"].(string),
		AuthorID: author.ID,
	}
	if content, ok := p.Args["content"].(string); ok {
		post.Content = &content
	}
	if err := gc.DB.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func resolvePublish(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var post models.Post
	if err := gc.DB.First(&post, p.Args["id"]).Error; err != nil {
		return nil, err
	}
	post.Published = true
	if err := gc.DB.Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func resolveDeletePost(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	var post models.Post
	if err := gc.DB.First(&post, p.Args["id"]).Error; err != nil {
		return nil, err
	}
	if err := gc.DB.Delete(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func resolveUpsertProfile(p graphql.ResolveParams) (interface{}, error) {
	gc, err := From(p.Context)
	if err != nil {
		return nil, err
	}
	userID := uint(p.Args["userId"].(int))

	var profile models.Profile
	err = gc.DB.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: userID}
	case err != nil:
		return nil, err
	}

	if bio, ok := p.Args["bio"].(string); ok {
		profile.Bio = &bio
	}
	if err := gc.DB.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
