package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
)

var _ agent.Repository = (*MongoStore)(nil)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("agents")}
}

type agentDoc struct {
	ID            string     `bson:"_id"`
	AgentID       string     `bson:"agentID"`
	FullName      string     `bson:"fullName"`
	Gender        string     `bson:"gender,omitempty"`
	ContactNumber string     `bson:"contactNumber,omitempty"`
	Email         string     `bson:"email,omitempty"`
	AssignedArea  string     `bson:"assignedArea,omitempty"`
	JoiningDate   *time.Time `bson:"joiningDate,omitempty"`
	AgentType     string     `bson:"agentType,omitempty"`
	SecretHash    string     `bson:"secretHash"`
	CreatedAt     time.Time  `bson:"createdAt"`
	UpdatedAt     *time.Time `bson:"updatedAt,omitempty"`
}

func toDoc(a *agent.Agent) agentDoc {
	return agentDoc{
		ID:            a.ID.String(),
		AgentID:       a.AgentID,
		FullName:      a.FullName,
		Gender:        a.Gender,
		ContactNumber: a.ContactNumber,
		Email:         a.Email,
		AssignedArea:  a.AssignedArea,
		JoiningDate:   a.JoiningDate,
		AgentType:     a.AgentType,
		SecretHash:    string(a.SecretHash),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func fromDoc(doc agentDoc) (*agent.Agent, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing agent id %q: %w", doc.ID, err)
	}

	return &agent.Agent{
		ID:            id,
		AgentID:       doc.AgentID,
		FullName:      doc.FullName,
		Gender:        doc.Gender,
		ContactNumber: doc.ContactNumber,
		Email:         doc.Email,
		AssignedArea:  doc.AssignedArea,
		JoiningDate:   doc.JoiningDate,
		AgentType:     doc.AgentType,
		SecretHash:    []byte(doc.SecretHash),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (s *MongoStore) CreateAgent(ctx context.Context, a *agent.Agent) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()

	if _, err := s.coll.InsertOne(ctx, toDoc(a)); err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	return nil
}

func (s *MongoStore) getBy(ctx context.Context, filter bson.M) (*agent.Agent, error) {
	var doc agentDoc

	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agent.ErrNotFound
		}

		return nil, fmt.Errorf("getting agent: %w", err)
	}

	return fromDoc(doc)
}

func (s *MongoStore) GetAgent(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	return s.getBy(ctx, bson.M{"_id": id.String()})
}

func (s *MongoStore) GetAgentByAgentID(ctx context.Context, agentID string) (*agent.Agent, error) {
	return s.getBy(ctx, bson.M{"agentID": agentID})
}

func (s *MongoStore) ListAgents(ctx context.Context) ([]*agent.Agent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	var docs []agentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding agents: %w", err)
	}

	agents := make([]*agent.Agent, 0, len(docs))

	for _, doc := range docs {
		a, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}

		agents = append(agents, a)
	}

	return agents, nil
}

func (s *MongoStore) UpdateAgent(ctx context.Context, a *agent.Agent) error {
	now := time.Now().UTC()
	a.UpdatedAt = &now

	doc := toDoc(a)

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("updating agent: %w", err)
	}

	if res.MatchedCount == 0 {
		return agent.ErrNotFound
	}

	return nil
}

// DeleteAgent removes the agent and unassigns their members, mirroring the
// ON DELETE SET NULL of the relational schema.
func (s *MongoStore) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}

	if res.DeletedCount == 0 {
		return agent.ErrNotFound
	}

	members := s.coll.Database().Collection("members")

	_, err = members.UpdateMany(ctx,
		bson.M{"assignedAgent": id.String()},
		bson.M{"$unset": bson.M{"assignedAgent": ""}},
	)
	if err != nil {
		return fmt.Errorf("unassigning members of agent: %w", err)
	}

	return nil
}
