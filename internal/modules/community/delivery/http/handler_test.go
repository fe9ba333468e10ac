package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/community/dto"
	"discussify.com/api/pkg/apperror"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubCommunityService struct {
	kickErr   error
	deleteErr error
	kicked    uuid.UUID
	role      entity.MemberRole
}

func (s *stubCommunityService) Create(ctx context.Context, creatorID uuid.UUID, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	return &dto.CommunityResponse{ID: uuid.New(), Name: req.Name}, nil
}

func (s *stubCommunityService) List(ctx context.Context, search string) ([]dto.CommunityResponse, error) {
	return []dto.CommunityResponse{{Name: "gophers"}}, nil
}

func (s *stubCommunityService) Get(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error) {
	return nil, apperror.NotFound("No community found with that ID")
}

func (s *stubCommunityService) Update(ctx context.Context, id, requesterID uuid.UUID, req dto.UpdateCommunityRequest, icon *commonDto.UploadedFile) (*dto.CommunityResponse, error) {
	return nil, apperror.Forbidden("Only the community creator can update settings")
}

func (s *stubCommunityService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	return s.deleteErr
}

func (s *stubCommunityService) ForceDelete(ctx context.Context, id, adminID uuid.UUID) error {
	return s.deleteErr
}

func (s *stubCommunityService) Reindex(ctx context.Context) error { return nil }

func (s *stubCommunityService) Join(ctx context.Context, communityID, userID uuid.UUID) (*dto.JoinResult, error) {
	return &dto.JoinResult{Status: dto.JoinStatusPending, Message: "Request sent. Waiting for approval."}, nil
}

func (s *stubCommunityService) Leave(ctx context.Context, communityID, userID uuid.UUID) error {
	return apperror.InvalidOperation("Creator cannot leave the community. Delete it instead.")
}

func (s *stubCommunityService) Kick(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error {
	s.kicked = targetID
	return s.kickErr
}

func (s *stubCommunityService) UpdateRole(ctx context.Context, communityID, requesterID, targetID uuid.UUID, role entity.MemberRole) error {
	s.role = role
	return nil
}

func (s *stubCommunityService) Invite(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error {
	return apperror.Conflict("User has already been invited")
}

func (s *stubCommunityService) RespondToInvite(ctx context.Context, communityID, userID uuid.UUID, status string) (string, error) {
	return "", apperror.NotFound("No pending invitation found")
}

func (s *stubCommunityService) HandleJoinRequest(ctx context.Context, communityID, requesterID, targetID uuid.UUID, status string) (string, error) {
	return "Request " + status, nil
}

func newRouter(svc *stubCommunityService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})

	h := NewCommunityHandler(svc)
	r.GET("/communities", h.GetAllCommunities)
	r.GET("/communities/:id", h.GetCommunity)
	r.PATCH("/communities/:id", h.UpdateCommunity)
	r.DELETE("/communities/:id", h.DeleteCommunity)
	r.POST("/communities/:id/join", h.JoinCommunity)
	r.POST("/communities/:id/leave", h.LeaveCommunity)
	r.POST("/communities/:id/kick", h.KickMember)
	r.POST("/communities/:id/role", h.UpdateMemberRole)
	r.POST("/communities/:id/requests", h.HandleJoinRequest)
	r.POST("/communities/:id/invite", h.InviteUser)
	r.POST("/communities/:id/respond-invite", h.RespondToInvite)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return body
}

func TestStatusMapping(t *testing.T) {
	user := uuid.NewString()
	community := "/communities/" + uuid.NewString()
	target := `{"userId":"` + uuid.NewString() + `"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		user   string
		want   int
	}{
		{"get missing", http.MethodGet, community, "", "", http.StatusNotFound},
		{"join needs auth", http.MethodPost, community + "/join", "", "", http.StatusUnauthorized},
		{"join pending", http.MethodPost, community + "/join", "", user, http.StatusOK},
		{"creator leave", http.MethodPost, community + "/leave", "", user, http.StatusBadRequest},
		{"update not creator", http.MethodPatch, community, `{"name":"x"}`, user, http.StatusForbidden},
		{"invite duplicate", http.MethodPost, community + "/invite", target, user, http.StatusBadRequest},
		{"respond not invited", http.MethodPost, community + "/respond-invite", `{"status":"accept"}`, user, http.StatusNotFound},
		{"kick missing body", http.MethodPost, community + "/kick", `{}`, user, http.StatusBadRequest},
		{"bad community id", http.MethodPost, "/communities/nope/join", "", user, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&stubCommunityService{}, tt.user), tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if w.Code >= 400 && decode(t, w)["status"] != "fail" {
				t.Errorf("expected fail status, got %s", w.Body.String())
			}
		})
	}
}

func TestKickForbidden(t *testing.T) {
	svc := &stubCommunityService{kickErr: apperror.Forbidden("Moderators can only kick regular members")}
	target := uuid.New()

	w := do(newRouter(svc, uuid.NewString()), http.MethodPost, "/communities/"+uuid.NewString()+"/kick", `{"userId":"`+target.String()+`"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if svc.kicked != target {
		t.Errorf("expected target %s, got %s", target, svc.kicked)
	}
	if msg := decode(t, w)["message"]; msg != "Moderators can only kick regular members" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestDeleteCommunity(t *testing.T) {
	w := do(newRouter(&stubCommunityService{}, uuid.NewString()), http.MethodDelete, "/communities/"+uuid.NewString(), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	svc := &stubCommunityService{deleteErr: apperror.InvalidOperation("Cannot delete community. There are 1 active discussions. Please delete them first.")}
	w = do(newRouter(svc, uuid.NewString()), http.MethodDelete, "/communities/"+uuid.NewString(), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg, _ := decode(t, w)["message"].(string); !strings.Contains(msg, "1 active discussions") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestUpdateRolePassesRole(t *testing.T) {
	svc := &stubCommunityService{}
	body := `{"userId":"` + uuid.NewString() + `","role":"moderator"}`

	w := do(newRouter(svc, uuid.NewString()), http.MethodPost, "/communities/"+uuid.NewString()+"/role", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.role != entity.MemberRoleModerator {
		t.Errorf("expected moderator, got %q", svc.role)
	}
	if msg := decode(t, w)["message"]; msg != "User role updated to moderator" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestListCommunities(t *testing.T) {
	w := do(newRouter(&stubCommunityService{}, ""), http.MethodGet, "/communities?search=go", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if results := decode(t, w)["results"]; results != float64(1) {
		t.Errorf("expected 1 result, got %v", results)
	}
}
