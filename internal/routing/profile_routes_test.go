package routing

import (
	"net/http"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func profileDocument(userId primitive.ObjectID, experience bson.A) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "user", Value: userId},
		{Key: "status", Value: "Developer"},
		{Key: "skills", Value: bson.A{"Go", "MongoDB"}},
		{Key: "social", Value: bson.D{}},
		{Key: "experience", Value: experience},
		{Key: "education", Value: bson.A{}},
	}
}

func findAndModifyResponse(value interface{}) primitive.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: value})
}

func TestGetProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("OwnProfile", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "devcastle.profiles", mtest.FirstBatch, profileDocument(userId, bson.A{})),
		)

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodGet, "/api/profile/me", jwtMgr, userId).
			Expect().Status(http.StatusOK)

		body := response.JSON().Object()
		body.Value("user").IsEqual(userId.Hex())
		body.Value("skills").Array().Length().IsEqual(2)
	})

	mt.Run("NoProfileYet", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(noDocuments("devcastle.profiles"))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodGet, "/api/profile/me", jwtMgr, userId).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-013", "There's no profile for this user"))
	})

	mt.Run("ByUserWithMalformedId", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		// The bad id short-circuits before the store and reads as no profile
		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodGet, "/api/profile/user/not-a-hex-id", jwtMgr, userId).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-013", "There's no profile for this user"))
	})
}

func TestUpdateProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("UpsertReturnsUpdatedDocument", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(findAndModifyResponse(profileDocument(userId, bson.A{})))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodPost, "/api/profile/update", jwtMgr, userId).
			WithJSON(map[string]string{"status": "Developer", "skills": "Go, MongoDB"}).
			Expect().Status(http.StatusOK)

		body := response.JSON().Object()
		body.Value("status").IsEqual("Developer")
		body.Value("skills").Array().IsEqual([]string{"Go", "MongoDB"})
	})

	mt.Run("MissingStatus", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodPost, "/api/profile/update", jwtMgr, userId).
			WithJSON(map[string]string{"skills": "Go"}).
			Expect().Status(http.StatusBadRequest)
		response.JSON().Object().Value("fields").Array().Value(0).Object().
			Value("message").IsEqual("Status is required")
	})
}

func TestExperience(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	validEntry := map[string]interface{}{
		"title":   "Engineer",
		"company": "Castle Corp",
		"from":    "2023-01-15",
		"current": true,
	}

	mt.Run("AddPrependsEntry", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()
		entryId := primitive.NewObjectID()

		updatedProfile := profileDocument(userId, bson.A{bson.D{
			{Key: "_id", Value: entryId},
			{Key: "title", Value: "Engineer"},
			{Key: "company", Value: "Castle Corp"},
			{Key: "from", Value: primitive.NewDateTimeFromTime(mustDate("2023-01-15"))},
			{Key: "current", Value: true},
		}})
		mt.AddMockResponses(findAndModifyResponse(updatedProfile))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodPut, "/api/profile/experience", jwtMgr, userId).
			WithJSON(validEntry).
			Expect().Status(http.StatusOK)

		experience := response.JSON().Object().Value("experience").Array()
		experience.Length().IsEqual(1)
		experience.Value(0).Object().Value("title").IsEqual("Engineer")
	})

	mt.Run("AddWithoutProfile", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(findAndModifyResponse(nil))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodPut, "/api/profile/experience", jwtMgr, userId).
			WithJSON(validEntry).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-013", "There's no profile for this user"))
	})

	mt.Run("AddWithBadDate", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		entry := map[string]interface{}{
			"title":   "Engineer",
			"company": "Castle Corp",
			"from":    "January 2023",
		}

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodPut, "/api/profile/experience", jwtMgr, userId).
			WithJSON(entry).
			Expect().Status(http.StatusBadRequest)
		response.JSON().Object().Value("fields").Array().Value(0).Object().
			Value("field").IsEqual("from")
	})

	mt.Run("DeleteUnknownEntry", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(findAndModifyResponse(nil))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodDelete, "/api/profile/experience/delete/"+primitive.NewObjectID().Hex(), jwtMgr, userId).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-014", "Invalid experience id"))
	})

	mt.Run("DeleteMalformedEntryId", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodDelete, "/api/profile/experience/delete/not-a-hex-id", jwtMgr, userId).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-014", "Invalid experience id"))
	})
}

func TestEducation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("DeleteUnknownEntry", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		mt.AddMockResponses(findAndModifyResponse(nil))

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodDelete, "/api/profile/education/delete/"+primitive.NewObjectID().Hex(), jwtMgr, userId).
			Expect().Status(http.StatusBadRequest)
		response.JSON().IsEqual(errorBody("ERR-015", "Invalid education id"))
	})
}

func TestDeleteProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("CascadesPostsProfileUser", func(mt *mtest.T) {
		server, jwtMgr := newTestServer(mt)
		userId := primitive.NewObjectID()

		// Posts go first, the user record last
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		expect := httpexpect.Default(mt, server.URL)
		response := authorizedRequest(expect, http.MethodDelete, "/api/profile/delete", jwtMgr, userId).
			Expect().Status(http.StatusOK)
		response.JSON().IsEqual(map[string]interface{}{"msg": "User deleted"})
	})
}

func mustDate(value string) (parsed time.Time) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
