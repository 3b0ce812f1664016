package server

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestContextInterceptor(t *testing.T) {
	interceptor := contextInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Method"}

	t.Run("identity from metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(mdUserID, "u-7", mdRole, "Cashier"))
		_, err := interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			user, ok := auth.FromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, "u-7", user.UserID)
			assert.True(t, auth.HasRole(ctx, auth.RoleCashier))
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("system role is not forwarded", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(mdUserID, "u-8", mdRole, "system"))
		_, err := interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			assert.True(t, auth.IsAuthenticated(ctx))
			assert.False(t, auth.HasRole(ctx, auth.RoleCashier))
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			assert.False(t, auth.IsAuthenticated(ctx))
			return nil, nil
		})
		require.NoError(t, err)
	})
}
