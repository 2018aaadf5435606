package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

type mongoCatalog struct {
	dishes      *mongo.Collection
	restaurants *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) Service {
	return &mongoCatalog{
		dishes:      db.Collection("dishes"),
		restaurants: db.Collection("restaurants"),
	}
}

type dishDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Price        string             `bson:"price"`
	Category     string             `bson:"category"`
	Image        string             `bson:"image"`
	RestaurantID primitive.ObjectID `bson:"restaurantId"`
}

type restaurantDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"name"`
	Cuisine string             `bson:"cuisine"`
	Image   string             `bson:"image"`
	Rating  string             `bson:"rating"`
}

func (d dishDoc) toDomain() *domain.Dish {
	return &domain.Dish{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Price:        d.Price,
		Category:     d.Category,
		Image:        d.Image,
		RestaurantID: d.RestaurantID.Hex(),
	}
}

func (r restaurantDoc) toDomain() *domain.Restaurant {
	return &domain.Restaurant{
		ID:      r.ID.Hex(),
		Name:    r.Name,
		Cuisine: r.Cuisine,
		Image:   r.Image,
		Rating:  r.Rating,
	}
}

func (m *mongoCatalog) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrDishNotFound
	}

	var doc dishDoc
	if err := m.dishes.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}

	return doc.toDomain(), nil
}

func (m *mongoCatalog) GetDishesByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Dish, error) {
	oid, err := primitive.ObjectIDFromHex(restaurantID)
	if err != nil {
		return nil, ErrRestaurantNotFound
	}

	cursor, err := m.dishes.Find(ctx, bson.M{"restaurantId": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var dishes []*domain.Dish
	for cursor.Next(ctx) {
		var doc dishDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode dish: %w", err)
		}
		dishes = append(dishes, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("dish cursor error: %w", err)
	}

	return dishes, nil
}

func (m *mongoCatalog) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRestaurantNotFound
	}

	var doc restaurantDoc
	if err := m.restaurants.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return doc.toDomain(), nil
}

func (m *mongoCatalog) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	cursor, err := m.restaurants.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var restaurants []*domain.Restaurant
	for cursor.Next(ctx) {
		var doc restaurantDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode restaurant: %w", err)
		}
		restaurants = append(restaurants, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("restaurant cursor error: %w", err)
	}

	return restaurants, nil
}
