package transporthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wardflow/internal/repository"
	"wardflow/internal/service"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
)

type staticValidator struct {
	userID id.UserID
}

func (v staticValidator) ValidateToken(token string) (id.UserID, error) {
	if token != "valid-token" {
		return id.UserID{}, fmt.Errorf("unknown token")
	}
	return v.userID, nil
}

type RouterSuite struct {
	suite.Suite
	server *httptest.Server
	caller id.UserID
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(repository.New(storage.New()), service.WithLogger(logger))
	s.caller = id.UserID(uuid.New())
	router := NewRouter(New(svc, logger), staticValidator{userID: s.caller}, logger, nil)
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) do(method, path string, body any) *http.Response {
	var payload bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &payload)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *RouterSuite) TestHealthzIsOpen() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestAPIRejectsMissingToken() {
	resp, err := http.Get(s.server.URL + "/wards")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestAPIRejectsInvalidToken() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/wards", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer bogus")
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestWardLifecycleOverHTTP() {
	resp := s.do(http.MethodPost, "/wards", map[string]string{"name": "North"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var ward struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	s.decode(resp, &ward)
	s.Equal("North", ward.Name)

	resp = s.do(http.MethodPost, "/rooms", map[string]string{"ward_id": ward.ID, "name": "101"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var room struct {
		ID string `json:"id"`
	}
	s.decode(resp, &room)

	resp = s.do(http.MethodPost, "/beds", map[string]string{"room_id": room.ID, "name": "Bed 1"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/wards/"+ward.ID+"/details", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var details struct {
		Rooms []struct {
			Beds []struct {
				Name string `json:"name"`
			} `json:"beds"`
		} `json:"rooms"`
	}
	s.decode(resp, &details)
	s.Require().Len(details.Rooms, 1)
	s.Require().Len(details.Rooms[0].Beds, 1)
	s.Equal("Bed 1", details.Rooms[0].Beds[0].Name)

	resp = s.do(http.MethodDelete, "/wards/"+ward.ID, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/wards/"+ward.ID, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *RouterSuite) TestMalformedIDIsBadRequest() {
	resp := s.do(http.MethodGet, "/wards/not-a-uuid", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("validation_error", body.Error)
}

func (s *RouterSuite) TestCreateTaskCarriesCallerIdentity() {
	resp := s.do(http.MethodPost, "/patients", map[string]string{"name": "Maier"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var patient struct {
		ID string `json:"id"`
	}
	s.decode(resp, &patient)

	resp = s.do(http.MethodPost, "/tasks", map[string]any{
		"patient_id": patient.ID,
		"name":       "check vitals",
		"subtasks":   []string{"measure temperature"},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var task struct {
		Task struct {
			ID        string `json:"id"`
			CreatorID string `json:"creator_id"`
			Status    string `json:"status"`
		} `json:"task"`
		SubTasks []struct {
			Name string `json:"name"`
		} `json:"subtasks"`
	}
	s.decode(resp, &task)
	s.Equal(s.caller.String(), task.Task.CreatorID)
	s.Equal("todo", task.Task.Status)
	s.Require().Len(task.SubTasks, 1)
}

func (s *RouterSuite) TestAttachSingleSelectValueOverHTTP() {
	resp := s.do(http.MethodPost, "/patients", map[string]string{"name": "Maier"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var patient struct {
		ID string `json:"id"`
	}
	s.decode(resp, &patient)

	resp = s.do(http.MethodPost, "/properties", map[string]any{
		"subject_type": "patient",
		"field_type":   "singleSelect",
		"name":         "Diet",
		"options":      []map[string]string{{"name": "vegetarian"}, {"name": "vegan"}},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var property struct {
		ID         string `json:"id"`
		SelectData struct {
			Options []struct {
				ID string `json:"id"`
			} `json:"options"`
		} `json:"select_data"`
	}
	s.decode(resp, &property)
	s.Require().Len(property.SelectData.Options, 2)

	path := "/values/patient/" + patient.ID + "/" + property.ID
	resp = s.do(http.MethodPut, path, map[string]string{
		"single_select_option_id": property.SelectData.Options[0].ID,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/values/patient/"+patient.ID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var entries []struct {
		Property struct {
			Name string `json:"name"`
		} `json:"property"`
		Value struct {
			Value struct {
				SingleSelectOptionID string `json:"single_select_option_id"`
			} `json:"value"`
		} `json:"value"`
	}
	s.decode(resp, &entries)
	s.Require().Len(entries, 1)
	s.Equal("Diet", entries[0].Property.Name)
	s.Equal(property.SelectData.Options[0].ID, entries[0].Value.Value.SingleSelectOptionID)
}
