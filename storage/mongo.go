package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"phonexchange_backend/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	collBrands    = "brands"
	collModels    = "phone_models"
	collQuestions = "questions"
	collListings  = "phones_for_sale"
	collLeads     = "leads"
)

// MongoStore is the document-store backend. Records are addressed by their
// own "id" field; Mongo's _id is never exposed.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// listingDocument is the stored shape of a ResaleListing. Specs is kept as a
// native sub-document rather than a JSON string.
type listingDocument struct {
	ID          string            `bson:"id"`
	Brand       string            `bson:"brand"`
	Model       string            `bson:"model"`
	Price       int               `bson:"price"`
	Condition   string            `bson:"condition"`
	Image       string            `bson:"image"`
	Description string            `bson:"description"`
	Specs       map[string]string `bson:"specs"`
	InStock     bool              `bson:"in_stock"`
}

func toListingDocument(l models.ResaleListing) listingDocument {
	return listingDocument{
		ID:          l.ID,
		Brand:       l.Brand,
		Model:       l.Model,
		Price:       l.Price,
		Condition:   l.Condition,
		Image:       l.Image,
		Description: l.Description,
		Specs:       l.Specs.Data(),
		InStock:     l.InStock,
	}
}

func (d listingDocument) toModel() models.ResaleListing {
	return models.ResaleListing{
		ID:          d.ID,
		Brand:       d.Brand,
		Model:       d.Model,
		Price:       d.Price,
		Condition:   d.Condition,
		Image:       d.Image,
		Description: d.Description,
		Specs:       models.NewSpecs(d.Specs),
		InStock:     d.InStock,
	}
}

// leadDocument is the read shape of a lead. CreatedAt is kept raw because
// older records store it as a string.
type leadDocument struct {
	ID            string        `bson:"id"`
	Name          string        `bson:"name"`
	Phone         string        `bson:"phone"`
	Area          string        `bson:"area"`
	PreferredTime string        `bson:"preferred_time"`
	PhoneModel    *string       `bson:"phone_model"`
	OfferedPrice  *int          `bson:"offered_price"`
	Remarks       *string       `bson:"remarks"`
	LeadType      string        `bson:"lead_type"`
	CreatedAt     bson.RawValue `bson:"created_at"`
}

// Layouts accepted for string timestamps: with an offset, or naive UTC.
var leadTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

func (d leadDocument) toModel() (models.Lead, error) {
	createdAt, err := decodeLeadTime(d.CreatedAt)
	if err != nil {
		return models.Lead{}, fmt.Errorf("lead %s: %w", d.ID, err)
	}
	return models.Lead{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		Area:          d.Area,
		PreferredTime: d.PreferredTime,
		PhoneModel:    d.PhoneModel,
		OfferedPrice:  d.OfferedPrice,
		Remarks:       d.Remarks,
		LeadType:      d.LeadType,
		CreatedAt:     createdAt,
	}, nil
}

func decodeLeadTime(raw bson.RawValue) (time.Time, error) {
	if ms, ok := raw.DateTimeOK(); ok {
		return time.UnixMilli(ms).UTC(), nil
	}
	if str, ok := raw.StringValueOK(); ok {
		for _, layout := range leadTimeLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable created_at %q", str)
	}
	if len(raw.Value) == 0 {
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unsupported created_at type %s", raw.Type)
}

// OpenMongo connects to uri and selects database dbName.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URL is required for the mongo store")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	for _, name := range []string{collBrands, collModels, collQuestions, collListings, collLeads} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create id index on %s: %w", name, err)
		}
	}
	return nil
}

func findOptions() *options.FindOptionsBuilder {
	return options.Find().
		SetLimit(ListLimit).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts *options.FindOptionsBuilder) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&out); err != nil {
		return nil, translateMongo(err)
	}
	return &out, nil
}

func translateMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return findAll[models.Brand](ctx, s.db.Collection(collBrands), bson.D{}, findOptions())
}

func (s *MongoStore) CountBrands(ctx context.Context) (int64, error) {
	return s.db.Collection(collBrands).CountDocuments(ctx, bson.D{})
}

func (s *MongoStore) ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error) {
	return findAll[models.PhoneModel](ctx, s.db.Collection(collModels),
		bson.D{{Key: "brand_id", Value: brandID}}, findOptions())
}

func (s *MongoStore) GetModel(ctx context.Context, id string) (*models.PhoneModel, error) {
	return findOne[models.PhoneModel](ctx, s.db.Collection(collModels), id)
}

func questionFindOptions() *options.FindOptionsBuilder {
	return findOptions().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
}

// ListQuestions sorts by position, falling back to insertion order, then
// re-sorts in process. Databases seeded before positions existed have none,
// and their ids must still compare numerically.
func (s *MongoStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions, err := findAll[models.Question](ctx, s.db.Collection(collQuestions), bson.D{}, questionFindOptions())
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(questions, models.CompareQuestions)
	return questions, nil
}

// listingQuery renders a ListingFilter as a Mongo filter document.
func listingQuery(filter models.ListingFilter) bson.D {
	query := bson.D{{Key: "in_stock", Value: true}}
	if filter.Brand != "" {
		query = append(query, bson.E{Key: "brand", Value: filter.Brand})
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.D{}
		if filter.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *filter.MinPrice})
		}
		if filter.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *filter.MaxPrice})
		}
		query = append(query, bson.E{Key: "price", Value: price})
	}
	return query
}

func (s *MongoStore) ListListings(ctx context.Context, filter models.ListingFilter) ([]models.ResaleListing, error) {
	docs, err := findAll[listingDocument](ctx, s.db.Collection(collListings), listingQuery(filter), findOptions())
	if err != nil {
		return nil, err
	}
	out := make([]models.ResaleListing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) GetListing(ctx context.Context, id string) (*models.ResaleListing, error) {
	doc, err := findOne[listingDocument](ctx, s.db.Collection(collListings), id)
	if err != nil {
		return nil, err
	}
	listing := doc.toModel()
	return &listing, nil
}

func (s *MongoStore) CreateLead(ctx context.Context, lead *models.Lead) error {
	_, err := s.db.Collection(collLeads).InsertOne(ctx, lead)
	return err
}

func leadQuery(filter models.LeadFilter) bson.D {
	query := bson.D{}
	if filter.LeadType != "" {
		query = append(query, bson.E{Key: "lead_type", Value: filter.LeadType})
	}
	return query
}

func leadFindOptions() *options.FindOptionsBuilder {
	return findOptions().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// ListLeads decodes leads written by this service (BSON dates) as well as
// older ones that carry created_at as an ISO-8601 string. BSON sorts the two
// types separately, so the page is re-sorted after decoding.
func (s *MongoStore) ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	docs, err := findAll[leadDocument](ctx, s.db.Collection(collLeads), leadQuery(filter), leadFindOptions())
	if err != nil {
		return nil, err
	}

	leads := make([]models.Lead, 0, len(docs))
	for _, d := range docs {
		lead, err := d.toModel()
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	slices.SortStableFunc(leads, func(a, b models.Lead) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return leads, nil
}

func (s *MongoStore) InsertCatalog(ctx context.Context, catalog *Catalog) error {
	batches := []struct {
		coll string
		docs []interface{}
	}{
		{collBrands, asDocuments(catalog.Brands)},
		{collModels, asDocuments(catalog.Models)},
		{collQuestions, asDocuments(catalog.Questions)},
		{collListings, listingDocuments(catalog.Listings)},
	}

	for _, b := range batches {
		if len(b.docs) == 0 {
			continue
		}
		if _, err := s.db.Collection(b.coll).InsertMany(ctx, b.docs); err != nil {
			return fmt.Errorf("insert %s: %w", b.coll, err)
		}
	}
	return nil
}

func asDocuments[T any](in []T) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}

func listingDocuments(in []models.ResaleListing) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, l := range in {
		out = append(out, toListingDocument(l))
	}
	return out
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
