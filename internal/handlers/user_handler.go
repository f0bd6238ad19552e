package handlers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"dev-castle-server/internal/managers"
	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	GetCurrentUser(c *gin.Context)
	GetUser(c *gin.Context)
	GetAllUsers(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	Validator       *utils.Validator
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MailManager:     *mailManager,
		Validator:       utils.GetValidator(),
	}
}

// excludePassword projects the password hash out of user reads so it can
// never leak into a response, independent of the JSON tags.
var excludePassword = options.FindOne().SetProjection(bson.M{"password": 0})

// RegisterUser registers a new user and returns a freshly issued token.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	registrationRequest, ok := sanitizedPayload[schemas.RegistrationRequest](c)
	if !ok {
		return
	}

	// Optional MX-level verification on top of the syntactic email check
	if os.Getenv("EMAIL_VERIFICATION") == "mx" && !handler.Validator.VerifyEmail(registrationRequest.Email) {
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, errors.New("email unreachable"))
		return
	}

	// Check if the email is taken
	err := handler.DatabaseManager.Users().FindOne(c, bson.M{"email": registrationRequest.Email}).Err()
	if err == nil {
		utils.WriteAndLogError(c, schemas.UserAlreadyRegistered, http.StatusBadRequest, errors.New("email already registered"))
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// bcrypt embeds a fresh random salt in every hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	user := &schemas.User{
		ID:        primitive.NewObjectID(),
		Firstname: registrationRequest.Firstname,
		Lastname:  registrationRequest.Lastname,
		Email:     registrationRequest.Email,
		Password:  string(hashedPassword),
		Avatar:    utils.GravatarURL(registrationRequest.Email),
		CreatedAt: time.Now(),
	}

	if _, err = handler.DatabaseManager.Users().InsertOne(c, user); err != nil {
		// The unique index closes the race between the lookup above and this insert
		if mongo.IsDuplicateKeyError(err) {
			utils.WriteAndLogError(c, schemas.UserAlreadyRegistered, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// The welcome mail must not delay the response
	go func(email, name string) {
		if err := handler.MailManager.SendWelcomeMail(email, name); err != nil {
			log.Warn("Welcome mail failed for ", email, ": ", err)
		}
	}(user.Email, user.Firstname+" "+user.Lastname)

	utils.WriteAndLogResponse(c, &schemas.TokenDTO{Token: token}, http.StatusOK)
}

// LoginUser verifies the given credentials and returns a freshly issued token.
// Unknown email and wrong password produce the identical error.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	loginRequest, ok := sanitizedPayload[schemas.LoginRequest](c)
	if !ok {
		return
	}

	user := &schemas.User{}
	err := handler.DatabaseManager.Users().FindOne(c, bson.M{"email": loginRequest.Email}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusBadRequest, errors.New("unknown email"))
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// The comparison always runs to completion before any decision is made
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusBadRequest, errors.New("password mismatch"))
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.TokenDTO{Token: token}, http.StatusOK)
}

// GetCurrentUser returns the authenticated user's record, minus the password hash.
func (handler *UserHandler) GetCurrentUser(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	user := &schemas.User{}
	err := handler.DatabaseManager.Users().FindOne(c, bson.M{"_id": userId}, excludePassword).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, user, http.StatusOK)
}

// GetUser returns the user for a given id. A malformed id reads as not found,
// the caller cannot tell the two apart.
func (handler *UserHandler) GetUser(c *gin.Context) {
	userId, err := primitive.ObjectIDFromHex(c.Param(utils.UserIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return
	}

	user := &schemas.User{}
	err = handler.DatabaseManager.Users().FindOne(c, bson.M{"_id": userId}, excludePassword).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, user, http.StatusOK)
}

// GetAllUsers returns every registered user, minus password hashes.
func (handler *UserHandler) GetAllUsers(c *gin.Context) {
	cursor, err := handler.DatabaseManager.Users().Find(c, bson.M{}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	users := []schemas.User{}
	if err = cursor.All(c, &users); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, users, http.StatusOK)
}
