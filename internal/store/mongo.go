package store

import (
	"context"
	"time"

	"lostfound/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ItemsCollection 文档集合名
const ItemsCollection = "items"

type itemDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Kind          string             `bson:"type"`
	Description   string             `bson:"description"`
	Location      string             `bson:"location"`
	Date          string             `bson:"date"`
	Time          string             `bson:"time"`
	Image         string             `bson:"image,omitempty"`
	ReportedBy    string             `bson:"user"`
	ReporterEmail string             `bson:"email,omitempty"`
	Tags          []string           `bson:"tags"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// MongoStore 文档存储实现，单文档写入天然原子
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore uses the items collection of database and ensures its indexes.
func NewMongoStore(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	coll := client.Database(database).Collection(ItemsCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return nil, &StorageError{Op: "create indexes", Err: err}
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Create(ctx context.Context, item models.Item) (models.Item, error) {
	if err := Validate(item); err != nil {
		return models.Item{}, err
	}
	// Mongo 只保存到毫秒精度
	item = stamp(item, s.now().UTC().Truncate(time.Millisecond))

	doc := toDoc(item)
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return models.Item{}, &StorageError{Op: "create", Err: err}
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) FindAll(ctx context.Context, filter Filter) ([]models.Item, error) {
	return s.find(ctx, tagQuery(filter), "find all")
}

func (s *MongoStore) FindByUser(ctx context.Context, displayName string) ([]models.Item, error) {
	return s.find(ctx, bson.M{"user": displayName}, "find by user")
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, query bson.M, op string) ([]models.Item, error) {
	opts := options.Find().SetSort(creationOrder())
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	items := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, fromDoc(d))
	}
	return items, nil
}

// tagQuery: 对数组字段的等值匹配即“包含该元素”
func tagQuery(filter Filter) bson.M {
	if filter.Tag == "" {
		return bson.M{}
	}
	return bson.M{"tags": filter.Tag}
}

func creationOrder() bson.D {
	return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
}

func toDoc(item models.Item) itemDoc {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return itemDoc{
		Kind:          string(item.Kind),
		Description:   item.Description,
		Location:      item.Location,
		Date:          item.Date,
		Time:          item.Time,
		Image:         item.Image,
		ReportedBy:    item.ReportedBy,
		ReporterEmail: item.ReporterEmail,
		Tags:          tags,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func fromDoc(doc itemDoc) models.Item {
	tags := make([]string, len(doc.Tags))
	copy(tags, doc.Tags)
	return models.Item{
		ID:            doc.ID.Hex(),
		Kind:          models.Kind(doc.Kind),
		Description:   doc.Description,
		Location:      doc.Location,
		Date:          doc.Date,
		Time:          doc.Time,
		Image:         doc.Image,
		ReportedBy:    doc.ReportedBy,
		ReporterEmail: doc.ReporterEmail,
		Tags:          tags,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
