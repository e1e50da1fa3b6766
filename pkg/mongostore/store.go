// Package mongostore implements the employee gateway on a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

var _ domain.EmployeeStore = (*Store)(nil)

// Options configures Connect
type Options struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	Logger         zerolog.Logger
}

// employeeRecord is the document shape stored in MongoDB
type employeeRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        *string            `bson:"name,omitempty"`
	Department  *string            `bson:"department,omitempty"`
	Designation *string            `bson:"designation,omitempty"`
	Salary      *float64           `bson:"salary,omitempty"`
}

func (r employeeRecord) toEmployee() domain.Employee {
	return domain.Employee{
		ID:          r.ID.Hex(),
		Name:        r.Name,
		Department:  r.Department,
		Designation: r.Designation,
		Salary:      r.Salary,
	}
}

// Store is a domain.EmployeeStore backed by a MongoDB collection
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    zerolog.Logger
}

// Connect dials MongoDB and waits until the server answers a ping. Pings
// are retried with exponential backoff until ConnectTimeout elapses.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	log := opts.Logger.With().Str("component", "mongostore").Logger()

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = opts.ConnectTimeout
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx, nil)
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("MongoDB not reachable yet")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo at %s: %w", opts.URI, err)
	}

	log.Info().Str("database", opts.Database).Str("collection", opts.Collection).Msg("MongoDB connected")

	return &Store{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		log:    log,
	}, nil
}

// NewStore wraps an existing collection. Close is a no-op for stores built
// this way since the caller owns the client.
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll, log: zerolog.Nop()}
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Employee, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, domain.NewStoreError("find employees", err)
	}
	defer cursor.Close(ctx)

	employees := []domain.Employee{}
	for cursor.Next(ctx) {
		var rec employeeRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, domain.NewStoreError("decode employee", err)
		}
		employees = append(employees, rec.toEmployee())
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.NewStoreError("find employees", err)
	}
	return employees, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Employee{}, err
	}

	var rec employeeRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return domain.Employee{}, translate("find employee", err)
	}
	return rec.toEmployee(), nil
}

func (s *Store) Create(ctx context.Context, fields domain.EmployeeFields) (domain.Employee, error) {
	rec := employeeRecord{
		ID:          primitive.NewObjectID(),
		Name:        fields.Name,
		Department:  fields.Department,
		Designation: fields.Designation,
		Salary:      fields.Salary,
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return domain.Employee{}, domain.NewStoreError("insert employee", err)
	}
	return rec.toEmployee(), nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, fields domain.EmployeeFields) (domain.Employee, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Employee{}, &domain.StoreError{Op: "update employee", Err: err}
	}

	// $set with an empty document is rejected by the server
	if fields.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	update := bson.M{"$set": setDocument(fields)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec employeeRecord
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&rec); err != nil {
		return domain.Employee{}, translate("update employee", err)
	}
	return rec.toEmployee(), nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	oid, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewStoreError("delete employee", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

// Close disconnects the client opened by Connect
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	s.log.Info().Msg("MongoDB disconnected")
	return nil
}

func setDocument(fields domain.EmployeeFields) bson.D {
	set := bson.D{}
	if fields.Name != nil {
		set = append(set, bson.E{Key: domain.FieldName, Value: *fields.Name})
	}
	if fields.Department != nil {
		set = append(set, bson.E{Key: domain.FieldDepartment, Value: *fields.Department})
	}
	if fields.Designation != nil {
		set = append(set, bson.E{Key: domain.FieldDesignation, Value: *fields.Designation})
	}
	if fields.Salary != nil {
		set = append(set, bson.E{Key: domain.FieldSalary, Value: *fields.Salary})
	}
	return set
}

func translate(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return domain.NewStoreError(op, err)
}
