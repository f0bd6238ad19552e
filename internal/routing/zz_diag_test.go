package routing

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestZZDiagCursorID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	run := func(name string, cursorID int64) {
		mt.Run(name, func(mt *mtest.T) {
			coll := mt.Coll
			doc := bson.D{{Key: "_id", Value: primitive.NewObjectID()}}
			mt.AddMockResponses(
				mtest.CreateCursorResponse(cursorID, "devcastle.posts", mtest.FirstBatch, doc),
				mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}, bson.E{Key: "nModified", Value: int32(1)}),
			)

			res := bson.D{}
			if err := coll.FindOne(context.Background(), bson.M{}).Decode(&res); err != nil {
				t.Logf("%s: FindOne err: %v", name, err)
			}
			if _, err := coll.UpdateOne(context.Background(), bson.M{}, bson.M{"$set": bson.M{"x": 1}}); err != nil {
				t.Logf("%s: UpdateOne err: %v", name, err)
			}
		})
	}

	run("cursor1", 1)
	run("cursor0", 0)
}
