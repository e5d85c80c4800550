package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

const (
	productionCollection = "production_records"
	salesCollection      = "sales_records"
	usersCollection      = "users"
)

// Store implements repository.Repository backed by MongoDB.
type Store struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// insertionOrder sorts by ObjectID so listings reproduce append order.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

// ListProduction returns the production records in insertion order.
func (s *Store) ListProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	cursor, err := s.collection(productionCollection).Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, fmt.Errorf("find production records: %w", err)
	}

	records := []models.ProductionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode production records: %w", err)
	}
	return records, nil
}

// InsertProduction appends a production record.
func (s *Store) InsertProduction(ctx context.Context, record models.ProductionRecord) error {
	if _, err := s.collection(productionCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert production record: %w", err)
	}
	return nil
}

// DeleteProduction removes a production record by id.
func (s *Store) DeleteProduction(ctx context.Context, id string) error {
	result, err := s.collection(productionCollection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete production record: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListSales returns the sale records in insertion order.
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	cursor, err := s.collection(salesCollection).Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, fmt.Errorf("find sale records: %w", err)
	}

	records := []models.SaleRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode sale records: %w", err)
	}
	return records, nil
}

// InsertSale appends a sale record.
func (s *Store) InsertSale(ctx context.Context, record models.SaleRecord) error {
	if _, err := s.collection(salesCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert sale record: %w", err)
	}
	return nil
}

// DeleteSale removes a sale record by id.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	result, err := s.collection(salesCollection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete sale record: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceAll drops both collections and re-inserts the supplied records.
func (s *Store) ReplaceAll(ctx context.Context, production []models.ProductionRecord, sales []models.SaleRecord) error {
	if err := s.collection(productionCollection).Drop(ctx); err != nil {
		return fmt.Errorf("drop production collection: %w", err)
	}
	if err := s.collection(salesCollection).Drop(ctx); err != nil {
		return fmt.Errorf("drop sales collection: %w", err)
	}

	if len(production) > 0 {
		docs := make([]interface{}, len(production))
		for i, record := range production {
			docs[i] = record
		}
		if _, err := s.collection(productionCollection).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("restore production records: %w", err)
		}
	}

	if len(sales) > 0 {
		docs := make([]interface{}, len(sales))
		for i, record := range sales {
			docs[i] = record
		}
		if _, err := s.collection(salesCollection).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("restore sale records: %w", err)
		}
	}
	return nil
}

// GetUserByEmail looks up an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var user models.UserAccount
	err := s.collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// UpsertUser creates or replaces the account keyed by email.
func (s *Store) UpsertUser(ctx context.Context, user models.UserAccount) error {
	_, err := s.collection(usersCollection).UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$set": user},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
