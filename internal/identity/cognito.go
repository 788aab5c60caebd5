package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
)

// CognitoAPI is the part of the Cognito user pool admin API the directory uses.
type CognitoAPI interface {
	AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	AdminListGroupsForUser(ctx context.Context, in *cip.AdminListGroupsForUserInput, optFns ...func(*cip.Options)) (*cip.AdminListGroupsForUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, in *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
}

// Cognito is a Directory backed by a Cognito user pool. One client is shared
// by every request.
type Cognito struct {
	api    CognitoAPI
	poolID string
	logger *zap.Logger
}

// NewCognito creates a Cognito directory from a loaded AWS config.
func NewCognito(awsCfg aws.Config, poolID string, logger *zap.Logger) *Cognito {
	return NewCognitoWithAPI(cip.NewFromConfig(awsCfg), poolID, logger)
}

// NewCognitoWithAPI creates a Cognito directory over an existing client.
func NewCognitoWithAPI(api CognitoAPI, poolID string, logger *zap.Logger) *Cognito {
	return &Cognito{api: api, poolID: poolID, logger: logger}
}

// GetUser returns the user's attributes, with the username and the user's
// highest precedence group folded in as cognito:username and cognito:groups.
func (c *Cognito) GetUser(ctx context.Context, username string) (*models.User, error) {
	out, err := c.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, c.mapError("admin get user", err)
	}

	user := &models.User{Username: aws.ToString(out.Username)}
	for _, a := range out.UserAttributes {
		user.Attributes = append(user.Attributes, models.UserAttribute{
			Name:  aws.ToString(a.Name),
			Value: aws.ToString(a.Value),
		})
	}
	user.Attributes = append(user.Attributes, models.UserAttribute{
		Name:  models.AttrUsername.String(),
		Value: user.Username,
	})

	groups, err := c.api.AdminListGroupsForUser(ctx, &cip.AdminListGroupsForUserInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, c.mapError("admin list groups", err)
	}
	if g := primaryGroup(groups.Groups); g != "" {
		user.Attributes = append(user.Attributes, models.UserAttribute{
			Name:  models.AttrGroups.String(),
			Value: g,
		})
	}
	return user, nil
}

// UpdateUserAttributes writes attrs to the user pool.
func (c *Cognito) UpdateUserAttributes(ctx context.Context, username string, attrs []models.UserAttribute) error {
	in := &cip.AdminUpdateUserAttributesInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(username),
	}
	for _, a := range attrs {
		in.UserAttributes = append(in.UserAttributes, types.AttributeType{
			Name:  aws.String(a.Name),
			Value: aws.String(a.Value),
		})
	}
	if _, err := c.api.AdminUpdateUserAttributes(ctx, in); err != nil {
		return c.mapError("admin update user attributes", err)
	}
	return nil
}

// DeleteUser removes the user from the pool.
func (c *Cognito) DeleteUser(ctx context.Context, username string) error {
	_, err := c.api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return c.mapError("admin delete user", err)
	}
	c.logger.Info("user deleted from pool", zap.String("username", username))
	return nil
}

func (c *Cognito) mapError(op string, err error) error {
	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("cognito %s: %w", op, err)
}

// primaryGroup picks the group with the lowest precedence value.
func primaryGroup(groups []types.GroupType) string {
	if len(groups) == 0 {
		return ""
	}
	sorted := append([]types.GroupType(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return aws.ToInt32(sorted[i].Precedence) < aws.ToInt32(sorted[j].Precedence)
	})
	return aws.ToString(sorted[0].GroupName)
}
