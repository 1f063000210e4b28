package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
)

func registerBody(email string) []byte {
	body, _ := json.Marshal(dto.RegisterRequest{
		Email:     email,
		Password:  "Password123",
		FirstName: "Aidos",
		LastName:  "Bekov",
	})
	return body
}

func (s *Suite) register(email string) (*dto.AuthResponse, []*http.Cookie) {
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(registerBody(email)),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Registration should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return &authResp, resp.Cookies()
}

func (s *Suite) TestRegister_Success() {
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(registerBody("test@example.com")),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.Account.Email)
	s.Equal("user", authResp.Account.Role)
	s.NotEmpty(authResp.Account.ID)

	cookies := resp.Cookies()
	s.NotEmpty(cookies, "Should have refresh token cookie")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	resp1, _ := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(registerBody("duplicate@example.com")),
	)
	resp1.Body.Close()

	resp2, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(registerBody("duplicate@example.com")),
	)
	s.Require().NoError(err)
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp2.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(registerBody("invalid-email")),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_ShortPassword() {
	body, _ := json.Marshal(dto.RegisterRequest{
		Email:     "test@example.com",
		Password:  "abc12",
		FirstName: "Aidos",
		LastName:  "Bekov",
	})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_SimplePassword() {
	body, _ := json.Marshal(dto.RegisterRequest{
		Email:     "simple@example.com",
		Password:  "secret1",
		FirstName: "Aidos",
		LastName:  "Bekov",
	})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.register("login@example.com")

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.Account.Email)

	cookies := resp.Cookies()
	s.NotEmpty(cookies, "Should have refresh token cookie")
}

func (s *Suite) TestLogin_InvalidCredentials() {
	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "wrongpassword",
	})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Unauthorized", errResp.Error)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com")

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123",
	})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_Success() {
	authResp, _ := s.register("getme@example.com")

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var accountResp dto.AccountResponse
	err = json.NewDecoder(resp.Body).Decode(&accountResp)
	s.Require().NoError(err)

	s.NotEmpty(accountResp.ID)
	s.Equal("getme@example.com", accountResp.Email)
	s.Equal("Aidos", accountResp.FirstName)
	s.Equal("Bekov", accountResp.LastName)
	s.Equal("user", accountResp.Role)
	s.NotEmpty(accountResp.CreatedAt)
	s.NotEmpty(accountResp.UpdatedAt)
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_Success() {
	_, cookies := s.register("refresh@example.com")
	s.Require().NotEmpty(cookies)

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)

	// The rotation minted a fresh cookie with a different value
	newCookies := resp.Cookies()
	s.Require().NotEmpty(newCookies)
	s.NotEqual(cookies[0].Value, newCookies[0].Value)
}

func (s *Suite) TestRefresh_ReplayedTokenRejected() {
	_, cookies := s.register("replay@example.com")
	s.Require().NotEmpty(cookies)

	first, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		first.AddCookie(cookie)
	}
	resp1, err := http.DefaultClient.Do(first)
	s.Require().NoError(err)
	resp1.Body.Close()
	s.Require().Equal(http.StatusOK, resp1.StatusCode)

	// Presenting the already-rotated token again must fail
	second, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		second.AddCookie(cookie)
	}
	resp2, err := http.DefaultClient.Do(second)
	s.Require().NoError(err)
	defer resp2.Body.Close()

	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *Suite) TestRefresh_NoCookie() {
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogout_Success() {
	authResp, cookies := s.register("logout@example.com")

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("Logged out successfully", successResp.Message)

	// The revoked token no longer refreshes
	refreshReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		refreshReq.AddCookie(cookie)
	}
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()

	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)
}

func (s *Suite) TestLogout_NoToken() {
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/logout", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestDeactivateAccount() {
	authResp, cookies := s.register("deactivate@example.com")

	req, _ := http.NewRequest("DELETE", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("Account deactivated", successResp.Message)

	// The deactivated account can no longer log in
	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "deactivate@example.com",
		Password: "Password123",
	})
	loginResp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer loginResp.Body.Close()
	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)

	// Nor refresh its existing token
	refreshReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		refreshReq.AddCookie(cookie)
	}
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)

	// A second deactivation reports the conflict
	again, _ := http.NewRequest("DELETE", s.BaseURL+"/api/v1/auth/me", nil)
	again.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))
	againResp, err := http.DefaultClient.Do(again)
	s.Require().NoError(err)
	defer againResp.Body.Close()
	s.Equal(http.StatusConflict, againResp.StatusCode)
}

func (s *Suite) TestCompleteFlow() {
	authResp, cookies := s.register("complete@example.com")
	accessToken := authResp.AccessToken

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	refreshReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		refreshReq.AddCookie(cookie)
	}
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var newAuthResp dto.AuthResponse
	json.NewDecoder(refreshResp.Body).Decode(&newAuthResp)
	newAccessToken := newAuthResp.AccessToken

	logoutReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/logout", nil)
	logoutReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", newAccessToken))
	for _, cookie := range refreshResp.Cookies() {
		logoutReq.AddCookie(cookie)
	}
	logoutResp, err := http.DefaultClient.Do(logoutReq)
	s.Require().NoError(err)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)

	// Access tokens stay valid until expiry even after logout
	meReq2, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	meReq2.Header.Set("Authorization", fmt.Sprintf("Bearer %s", newAccessToken))
	meResp2, err := http.DefaultClient.Do(meReq2)
	s.Require().NoError(err)
	defer meResp2.Body.Close()
	s.Equal(http.StatusOK, meResp2.StatusCode)
}
