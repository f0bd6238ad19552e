package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dev-castle-server/internal/managers"
	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

type ProfileHdl interface {
	GetOwnProfile(c *gin.Context)
	GetProfileByUser(c *gin.Context)
	UpdateProfile(c *gin.Context)
	AddExperience(c *gin.Context)
	DeleteExperience(c *gin.Context)
	AddEducation(c *gin.Context)
	DeleteEducation(c *gin.Context)
	DeleteProfile(c *gin.Context)
}

type ProfileHandler struct {
	DatabaseManager managers.DatabaseMgr
	CacheManager    managers.CacheMgr
}

func NewProfileHandler(databaseManager *managers.DatabaseMgr, cacheManager *managers.CacheMgr) ProfileHdl {
	return &ProfileHandler{
		DatabaseManager: *databaseManager,
		CacheManager:    *cacheManager,
	}
}

var returnUpdated = options.FindOneAndUpdate().SetReturnDocument(options.After)

// GetOwnProfile returns the caller's profile.
func (handler *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	profile := &schemas.Profile{}
	err := handler.DatabaseManager.Profiles().FindOne(c, bson.M{"user": userId}).Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.ProfileNotFound, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// GetProfileByUser returns the profile owned by the user id in the path.
func (handler *ProfileHandler) GetProfileByUser(c *gin.Context) {
	userId, err := primitive.ObjectIDFromHex(c.Param(utils.UserIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.ProfileNotFound, http.StatusBadRequest, err)
		return
	}

	profile := &schemas.Profile{}
	err = handler.DatabaseManager.Profiles().FindOne(c, bson.M{"user": userId}).Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.ProfileNotFound, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// UpdateProfile creates the caller's profile if absent and updates it in
// place otherwise. Only submitted fields are set, omitted ones keep their
// stored value. The whole upsert is a single atomic operation.
func (handler *ProfileHandler) UpdateProfile(c *gin.Context) {
	updateRequest, ok := sanitizedPayload[schemas.UpdateProfileRequest](c)
	if !ok {
		return
	}

	userId, ok := callerId(c)
	if !ok {
		return
	}

	fields := bson.M{
		"user":      userId,
		"status":    updateRequest.Status,
		"skills":    splitSkills(updateRequest.Skills),
		"updatedAt": time.Now(),
	}
	setIfPresent(fields, "company", updateRequest.Company)
	setIfPresent(fields, "website", updateRequest.Website)
	setIfPresent(fields, "location", updateRequest.Location)
	setIfPresent(fields, "bio", updateRequest.Bio)
	setIfPresent(fields, "githubusername", updateRequest.GithubUsername)
	setIfPresent(fields, "social.youtube", updateRequest.Youtube)
	setIfPresent(fields, "social.facebook", updateRequest.Facebook)
	setIfPresent(fields, "social.twitter", updateRequest.Twitter)
	setIfPresent(fields, "social.linkedin", updateRequest.Linkedin)
	setIfPresent(fields, "social.instagram", updateRequest.Instagram)
	setIfPresent(fields, "social.xing", updateRequest.Xing)
	setIfPresent(fields, "social.stackoverflow", updateRequest.Stackoverflow)

	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}

	profile := &schemas.Profile{}
	err := handler.DatabaseManager.Profiles().
		FindOneAndUpdate(c, bson.M{"user": userId}, update, options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).
		Decode(profile)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// AddExperience prepends a new experience entry to the caller's profile.
func (handler *ProfileHandler) AddExperience(c *gin.Context) {
	experienceRequest, ok := sanitizedPayload[schemas.AddExperienceRequest](c)
	if !ok {
		return
	}

	userId, ok := callerId(c)
	if !ok {
		return
	}

	from, to, ok := parseEntryDates(c, experienceRequest.From, experienceRequest.To)
	if !ok {
		return
	}

	entry := schemas.Experience{
		ID:          primitive.NewObjectID(),
		Title:       experienceRequest.Title,
		Company:     experienceRequest.Company,
		Location:    experienceRequest.Location,
		From:        from,
		To:          to,
		Current:     experienceRequest.Current,
		Description: experienceRequest.Description,
	}

	update := bson.M{
		"$push": bson.M{"experience": bson.M{"$each": []schemas.Experience{entry}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	profile := &schemas.Profile{}
	err := handler.DatabaseManager.Profiles().FindOneAndUpdate(c, bson.M{"user": userId}, update, returnUpdated).Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.ProfileNotFound, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// DeleteExperience removes exactly the addressed experience entry. A
// malformed or unknown entry id reads as invalid and leaves the list as it
// was.
func (handler *ProfileHandler) DeleteExperience(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	entryId, err := primitive.ObjectIDFromHex(c.Param(utils.EntryIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidExperienceId, http.StatusBadRequest, err)
		return
	}

	update := bson.M{
		"$pull": bson.M{"experience": bson.M{"_id": entryId}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	// The filter requires the entry to be present, so the pull either removes
	// exactly that entry or the whole operation reports no match
	profile := &schemas.Profile{}
	err = handler.DatabaseManager.Profiles().
		FindOneAndUpdate(c, bson.M{"user": userId, "experience._id": entryId}, update, returnUpdated).
		Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.InvalidExperienceId, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// AddEducation prepends a new education entry to the caller's profile.
func (handler *ProfileHandler) AddEducation(c *gin.Context) {
	educationRequest, ok := sanitizedPayload[schemas.AddEducationRequest](c)
	if !ok {
		return
	}

	userId, ok := callerId(c)
	if !ok {
		return
	}

	from, to, ok := parseEntryDates(c, educationRequest.From, educationRequest.To)
	if !ok {
		return
	}

	entry := schemas.Education{
		ID:           primitive.NewObjectID(),
		School:       educationRequest.School,
		Degree:       educationRequest.Degree,
		FieldOfStudy: educationRequest.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      educationRequest.Current,
		Description:  educationRequest.Description,
	}

	update := bson.M{
		"$push": bson.M{"education": bson.M{"$each": []schemas.Education{entry}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	profile := &schemas.Profile{}
	err := handler.DatabaseManager.Profiles().FindOneAndUpdate(c, bson.M{"user": userId}, update, returnUpdated).Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.ProfileNotFound, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// DeleteEducation removes exactly the addressed education entry.
func (handler *ProfileHandler) DeleteEducation(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	entryId, err := primitive.ObjectIDFromHex(c.Param(utils.EntryIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidEducationId, http.StatusBadRequest, err)
		return
	}

	update := bson.M{
		"$pull": bson.M{"education": bson.M{"_id": entryId}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	profile := &schemas.Profile{}
	err = handler.DatabaseManager.Profiles().
		FindOneAndUpdate(c, bson.M{"user": userId, "education._id": entryId}, update, returnUpdated).
		Decode(profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.InvalidEducationId, http.StatusBadRequest, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, profile, http.StatusOK)
}

// DeleteProfile removes the caller's posts, profile and user record, in that
// order. The steps are not transactional; deleting the user record last means
// a partial failure leaves an account that can simply retry the operation.
func (handler *ProfileHandler) DeleteProfile(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	if _, err := handler.DatabaseManager.Posts().DeleteMany(c, bson.M{"user": userId}); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	handler.CacheManager.InvalidateFeed(c)

	if _, err := handler.DatabaseManager.Profiles().DeleteOne(c, bson.M{"user": userId}); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if _, err := handler.DatabaseManager.Users().DeleteOne(c, bson.M{"_id": userId}); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "User deleted"}, http.StatusOK)
}

// splitSkills parses the comma-separated skills string into a trimmed,
// ordered list.
func splitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setIfPresent(fields bson.M, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

// parseEntryDates parses the from/to dates of an experience or education
// entry. Dates are accepted as RFC 3339 or plain YYYY-MM-DD; a bad date is a
// validation failure.
func parseEntryDates(c *gin.Context, fromRaw, toRaw string) (time.Time, *time.Time, bool) {
	from, err := parseDate(fromRaw)
	if err != nil {
		utils.WriteAndLogValidationError(c, []schemas.FieldErrorDTO{{Field: "from", Message: "From is not a valid date"}}, err)
		return time.Time{}, nil, false
	}

	var to *time.Time
	if toRaw != "" {
		parsed, err := parseDate(toRaw)
		if err != nil {
			utils.WriteAndLogValidationError(c, []schemas.FieldErrorDTO{{Field: "to", Message: "To is not a valid date"}}, err)
			return time.Time{}, nil, false
		}
		to = &parsed
	}

	return from, to, true
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
