package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

var _ fund.Repository = (*MongoStore)(nil)

// Funds and donations share one collection, told apart by kind.
const collection = "funds"

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collection)}
}

type transactionDoc struct {
	ID        string     `bson:"_id"`
	MemberID  string     `bson:"memberID"`
	Kind      string     `bson:"kind,omitempty"`
	Type      string     `bson:"type"`
	Amount    any        `bson:"amount"`
	Status    string     `bson:"status,omitempty"`
	Date      time.Time  `bson:"date"`
	AgentID   string     `bson:"agentID,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

func toDoc(t *fund.Transaction) (transactionDoc, error) {
	amount, err := primitive.ParseDecimal128(t.Amount.String())
	if err != nil {
		return transactionDoc{}, fmt.Errorf("encoding amount: %w", err)
	}

	doc := transactionDoc{
		ID:        t.ID.String(),
		MemberID:  t.MemberID,
		Kind:      string(t.Kind),
		Type:      string(t.Type),
		Amount:    amount,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	if t.Status != nil {
		doc.Status = string(*t.Status)
	}

	if t.RecordedBy != nil {
		doc.AgentID = t.RecordedBy.String()
	}

	return doc, nil
}

// fromDoc coerces the amount and defaults documents written before the kind
// field existed: a status marks a donation, anything else is a fund.
func fromDoc(doc transactionDoc) (*fund.Transaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction id %q: %w", doc.ID, err)
	}

	t := &fund.Transaction{
		ID:        id,
		MemberID:  doc.MemberID,
		Kind:      fund.Kind(doc.Kind),
		Type:      fund.Type(doc.Type),
		Amount:    money.FromAny(doc.Amount),
		Date:      doc.Date,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}

	if doc.Status != "" {
		t.Status = new(fund.Status(doc.Status))
	}

	if t.Kind == "" {
		t.Kind = fund.KindFund
		if t.Status != nil {
			t.Kind = fund.KindDonation
		}
	}

	if doc.AgentID != "" {
		if agentID, err := uuid.Parse(doc.AgentID); err == nil {
			t.RecordedBy = &agentID
		}
	}

	return t, nil
}

func (s *MongoStore) CreateTransaction(ctx context.Context, t *fund.Transaction) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()

	doc, err := toDoc(t)
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *MongoStore) GetTransaction(ctx context.Context, id uuid.UUID) (*fund.Transaction, error) {
	var doc transactionDoc

	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fund.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return fromDoc(doc)
}

// statusQuery matches on the effective status: Paid also selects documents
// with no status at all.
func statusQuery(status fund.Status) bson.M {
	if status != fund.StatusPaid {
		return bson.M{"status": string(status)}
	}

	return bson.M{"$or": bson.A{
		bson.M{"status": string(fund.StatusPaid)},
		bson.M{"status": bson.M{"$exists": false}},
		bson.M{"status": nil},
		bson.M{"status": ""},
	}}
}

func (s *MongoStore) ListTransactions(ctx context.Context, filter fund.ListFilter) ([]*fund.Transaction, error) {
	query := bson.M{}

	if filter.MemberID != nil {
		query["memberID"] = *filter.MemberID
	}

	if filter.Kind != nil {
		query["kind"] = string(*filter.Kind)
	}

	if filter.Type != nil {
		query["type"] = string(*filter.Type)
	}

	if filter.Status != nil {
		for k, v := range statusQuery(*filter.Status) {
			query[k] = v
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txs := make([]*fund.Transaction, 0, len(docs))

	for _, doc := range docs {
		t, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}

		txs = append(txs, t)
	}

	return txs, nil
}

func (s *MongoStore) UpdateTransaction(ctx context.Context, t *fund.Transaction) error {
	now := time.Now().UTC()
	t.UpdatedAt = &now

	doc, err := toDoc(t)
	if err != nil {
		return err
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if res.MatchedCount == 0 {
		return fund.ErrNotFound
	}

	return nil
}

func (s *MongoStore) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if res.DeletedCount == 0 {
		return fund.ErrNotFound
	}

	return nil
}
