package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/compro/models"
	"go.mongodb.org/mongo-driver/bson"
)

const entityWebsite = "website profile"

// WebsiteProfile returns the singleton profile or a KindNotFound error.
func (db *DB) WebsiteProfile(ctx context.Context) (*models.WebsiteProfile, error) {
	var p models.WebsiteProfile
	if err := db.Website().FindOne(ctx, bson.M{"_id": models.WebsiteProfileID}).Decode(&p); err != nil {
		return nil, mongoErr(entityWebsite, err)
	}
	return &p, nil
}

// CreateWebsiteProfile inserts the profile under the fixed id, so a second create is a KindUnique error.
func (db *DB) CreateWebsiteProfile(ctx context.Context, p *models.WebsiteProfile) error {
	p.ID = models.WebsiteProfileID
	if p.SocialLinks == nil {
		p.SocialLinks = map[string]string{}
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	_, err := db.Website().InsertOne(ctx, p)
	return mongoErr(entityWebsite, err)
}

func (db *DB) UpdateWebsiteProfile(ctx context.Context, upd models.WebsiteProfileUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for field, v := range websiteUpdateFields(upd) {
		set[field] = v
	}
	return db.updateWebsite(ctx, bson.M{"$set": set})
}

func (db *DB) AppendGalleryImage(ctx context.Context, url string) error {
	return db.updateWebsite(ctx, bson.M{
		"$push": bson.M{"gallery": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (db *DB) updateWebsite(ctx context.Context, update bson.M) error {
	res, err := db.Website().UpdateOne(ctx, bson.M{"_id": models.WebsiteProfileID}, update)
	if err != nil {
		return mongoErr(entityWebsite, err)
	}
	if res.MatchedCount == 0 {
		return NotFound(entityWebsite)
	}
	return nil
}

// websiteUpdateFields maps the set fields of upd to their document keys.
func websiteUpdateFields(upd models.WebsiteProfileUpdate) map[string]interface{} {
	out := map[string]interface{}{}
	str := map[string]*string{
		"name":        upd.Name,
		"description": upd.Description,
		"logoUrl":     upd.LogoURL,
		"address":     upd.Address,
		"phone":       upd.Phone,
		"email":       upd.Email,
	}
	for k, v := range str {
		if v != nil {
			out[k] = *v
		}
	}
	flags := map[string]*bool{
		"isUserRegistrationEnabled": upd.IsUserRegistrationEnabled,
		"isBlogEnabled":             upd.IsBlogEnabled,
		"isProductEnabled":          upd.IsProductEnabled,
		"isCommentEnabled":          upd.IsCommentEnabled,
		"isLikeEnabled":             upd.IsLikeEnabled,
		"isReviewEnabled":           upd.IsReviewEnabled,
	}
	for k, v := range flags {
		if v != nil {
			out[k] = *v
		}
	}
	if upd.SocialLinks != nil {
		out["socialLinks"] = *upd.SocialLinks
	}
	if upd.Gallery != nil {
		out["gallery"] = *upd.Gallery
	}
	return out
}
