package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/donation-hub/internal/model"
)

// The document types mirror the collections' BSON layout. References to
// users are stored as ObjectIDs, as a Mongoose schema would.

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Avatar   string             `bson:"avatar"`
	Date     time.Time          `bson:"date"`
}

type likeDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	User primitive.ObjectID `bson:"user"`
}

type commentDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	User   primitive.ObjectID `bson:"user"`
	Text   string             `bson:"text"`
	Name   string             `bson:"name"`
	Avatar string             `bson:"avatar"`
	Date   time.Time          `bson:"date"`
}

type blogDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Image    string             `bson:"image"`
	Text     string             `bson:"text"`
	Heading  string             `bson:"heading"`
	Likes    []likeDoc          `bson:"likes"`
	Comments []commentDoc       `bson:"comments"`
	Date     time.Time          `bson:"date"`
}

type resourceDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"name"`
	Qtty    string             `bson:"qtty"`
	Pincode string             `bson:"pincode"`
	City    string             `bson:"city"`
	State   string             `bson:"state"`
	Country string             `bson:"country"`
	Phone   string             `bson:"phone"`
	User    primitive.ObjectID `bson:"user"`
	Date    time.Time          `bson:"date"`
}

func (d *userDoc) model() *model.User {
	return &model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Avatar:    d.Avatar,
		CreatedAt: d.Date,
	}
}

func (d *resourceDoc) model() model.Resource {
	return model.Resource{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Quantity:  d.Qtty,
		Pincode:   d.Pincode,
		City:      d.City,
		State:     d.State,
		Country:   d.Country,
		Phone:     d.Phone,
		UserID:    d.User.Hex(),
		CreatedAt: d.Date,
	}
}

func (d *blogDoc) model() model.Blog {
	b := model.Blog{
		ID:        d.ID.Hex(),
		Image:     d.Image,
		Text:      d.Text,
		Heading:   d.Heading,
		Likes:     make([]model.Like, 0, len(d.Likes)),
		Comments:  make([]model.Comment, 0, len(d.Comments)),
		CreatedAt: d.Date,
	}
	for _, l := range d.Likes {
		b.Likes = append(b.Likes, model.Like{ID: l.ID.Hex(), UserID: l.User.Hex()})
	}
	for _, c := range d.Comments {
		b.Comments = append(b.Comments, model.Comment{
			ID:        c.ID.Hex(),
			UserID:    c.User.Hex(),
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: c.Date,
		})
	}
	return b
}

// blogDocument converts b, assigning ids and dates to new likes and comments
// on b itself so the caller sees what was stored.
func blogDocument(b *model.Blog) (*blogDoc, error) {
	id, err := objectID("blog", b.ID)
	if err != nil {
		return nil, err
	}
	d := &blogDoc{
		ID:       id,
		Image:    b.Image,
		Text:     b.Text,
		Heading:  b.Heading,
		Likes:    make([]likeDoc, 0, len(b.Likes)),
		Comments: make([]commentDoc, 0, len(b.Comments)),
		Date:     b.CreatedAt,
	}

	for i := range b.Likes {
		l := &b.Likes[i]
		if l.ID == "" {
			l.ID = primitive.NewObjectID().Hex()
		}
		lid, err := objectID("like", l.ID)
		if err != nil {
			return nil, err
		}
		user, err := objectID("user", l.UserID)
		if err != nil {
			return nil, err
		}
		d.Likes = append(d.Likes, likeDoc{ID: lid, User: user})
	}

	for i := range b.Comments {
		c := &b.Comments[i]
		if c.ID == "" {
			c.ID = primitive.NewObjectID().Hex()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now()
		}
		cid, err := objectID("comment", c.ID)
		if err != nil {
			return nil, err
		}
		user, err := objectID("user", c.UserID)
		if err != nil {
			return nil, err
		}
		d.Comments = append(d.Comments, commentDoc{
			ID:     cid,
			User:   user,
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.CreatedAt,
		})
	}

	if b.Likes == nil {
		b.Likes = []model.Like{}
	}
	if b.Comments == nil {
		b.Comments = []model.Comment{}
	}
	return d, nil
}

func resourceDocument(r *model.Resource) (*resourceDoc, error) {
	id, err := objectID("resource", r.ID)
	if err != nil {
		return nil, err
	}
	user, err := objectID("user", r.UserID)
	if err != nil {
		return nil, err
	}
	return &resourceDoc{
		ID:      id,
		Name:    r.Name,
		Qtty:    r.Quantity,
		Pincode: r.Pincode,
		City:    r.City,
		State:   r.State,
		Country: r.Country,
		Phone:   r.Phone,
		User:    user,
		Date:    r.CreatedAt,
	}, nil
}
