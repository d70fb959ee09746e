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

	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

var _ member.Repository = (*MongoStore)(nil)

const collection = "members"

// MongoStore keeps members as documents using the field names of the
// original portal collections, so exported data can be loaded as-is.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collection)}
}

// memberDoc.PaymentAmount was historically stored as a string. Decoding into
// any lets money.FromAny accept strings, doubles, ints and decimal128 alike.
type memberDoc struct {
	ID                 string     `bson:"_id"`
	MemberID           string     `bson:"memberID"`
	FullName           string     `bson:"fullName"`
	Gender             string     `bson:"gender,omitempty"`
	ContactNumber      string     `bson:"contactNumber,omitempty"`
	Email              string     `bson:"email,omitempty"`
	Address            string     `bson:"address,omitempty"`
	DateJoined         *time.Time `bson:"dateJoined,omitempty"`
	DonationPreference string     `bson:"donationPreference,omitempty"`
	PaymentAmount      any        `bson:"paymentAmount,omitempty"`
	AssignedAgent      string     `bson:"assignedAgent,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt"`
	UpdatedAt          *time.Time `bson:"updatedAt,omitempty"`
}

func toDoc(m *member.Member) (memberDoc, error) {
	amount, err := primitive.ParseDecimal128(m.ExpectedAmount.String())
	if err != nil {
		return memberDoc{}, fmt.Errorf("encoding expected amount: %w", err)
	}

	doc := memberDoc{
		ID:                 m.ID.String(),
		MemberID:           m.MemberID,
		FullName:           m.FullName,
		Gender:             m.Gender,
		ContactNumber:      m.ContactNumber,
		Email:              m.Email,
		Address:            m.Address,
		DateJoined:         m.DateJoined,
		DonationPreference: string(m.DonationPreference),
		PaymentAmount:      amount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	if m.AssignedAgentID != nil {
		doc.AssignedAgent = m.AssignedAgentID.String()
	}

	return doc, nil
}

func fromDoc(doc memberDoc) (*member.Member, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing member id %q: %w", doc.ID, err)
	}

	m := &member.Member{
		ID:                 id,
		MemberID:           doc.MemberID,
		FullName:           doc.FullName,
		Gender:             doc.Gender,
		ContactNumber:      doc.ContactNumber,
		Email:              doc.Email,
		Address:            doc.Address,
		DateJoined:         doc.DateJoined,
		DonationPreference: member.DonationPreference(doc.DonationPreference),
		ExpectedAmount:     money.NonNegative(money.FromAny(doc.PaymentAmount)),
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}

	if m.DonationPreference == "" {
		m.DonationPreference = member.PreferenceNone
	}

	if doc.AssignedAgent != "" {
		if agentID, err := uuid.Parse(doc.AssignedAgent); err == nil {
			m.AssignedAgentID = &agentID
		}
	}

	return m, nil
}

func (s *MongoStore) CreateMember(ctx context.Context, m *member.Member) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()

	doc, err := toDoc(m)
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("creating member: %w", err)
	}

	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*member.Member, error) {
	var doc memberDoc

	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, member.ErrNotFound
		}

		return nil, err
	}

	return fromDoc(doc)
}

func (s *MongoStore) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := s.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil && !errors.Is(err, member.ErrNotFound) {
		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, err
}

func (s *MongoStore) GetMemberByMemberID(ctx context.Context, memberID string) (*member.Member, error) {
	m, err := s.findOne(ctx, bson.M{"memberID": memberID})
	if err != nil && !errors.Is(err, member.ErrNotFound) {
		return nil, fmt.Errorf("getting member by member id: %w", err)
	}

	return m, err
}

func (s *MongoStore) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	query := bson.M{}

	if filter.AssignedAgentID != nil {
		query["assignedAgent"] = filter.AssignedAgentID.String()
	}

	if filter.DonationPreference != nil {
		query["donationPreference"] = string(*filter.DonationPreference)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	var docs []memberDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding members: %w", err)
	}

	members := make([]*member.Member, 0, len(docs))

	for _, doc := range docs {
		m, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}

		members = append(members, m)
	}

	return members, nil
}

func (s *MongoStore) UpdateMember(ctx context.Context, m *member.Member) error {
	now := time.Now().UTC()
	m.UpdatedAt = &now

	doc, err := toDoc(m)
	if err != nil {
		return err
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}

	if res.MatchedCount == 0 {
		return member.ErrNotFound
	}

	return nil
}

func (s *MongoStore) DeleteMember(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	if res.DeletedCount == 0 {
		return member.ErrNotFound
	}

	return nil
}
