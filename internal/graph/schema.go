// Package graph assembles the executable GraphQL schema. Type definitions
// are declarative field lists; resolution delegates straight to the ORM,
// with no business logic of its own.
package graph

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema exposing User, Profile and Post.
func NewSchema() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":  &graphql.Field{Type: graphql.String},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"bio": &graphql.Field{Type: graphql.String},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content":   &graphql.Field{Type: graphql.String},
			"published": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	// Relation fields are added after construction so the three types can
	// reference each other.
	userType.AddFieldConfig("posts", &graphql.Field{
		Type:    graphql.NewList(graphql.NewNonNull(postType)),
		Resolve: resolveUserPosts,
	})
	userType.AddFieldConfig("profile", &graphql.Field{
		Type:    profileType,
		Resolve: resolveUserProfile,
	})
	profileType.AddFieldConfig("user", &graphql.Field{
		Type:    graphql.NewNonNull(userType),
		Resolve: resolveProfileUser,
	})
	postType.AddFieldConfig("author", &graphql.Field{
		Type:    graphql.NewNonNull(userType),
		Resolve: resolvePostAuthor,
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(userType)),
				Resolve: resolveUsers,
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: resolveUser,
			},
			"feed": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(postType)),
				Resolve: resolveFeed,
			},
			"drafts": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(postType)),
				Resolve: resolveDrafts,
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: resolvePost,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signupUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: resolveSignupUser,
			},
			"createDraft": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":     &graphql.ArgumentConfig{Type: graphql.String},
					"authorEmail": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolveCreateDraft,
			},
			"publish": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: resolvePublish,
			},
			"deletePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: resolveDeletePost,
			},
			"upsertProfile": &graphql.Field{
				Type: graphql.NewNonNull(profileType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"bio":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: resolveUpsertProfile,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
