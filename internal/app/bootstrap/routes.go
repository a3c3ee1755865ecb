// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chatbotfeature "github.com/yash2607-del/samaaj/internal/app/features/chatbot"
	complaintsfeature "github.com/yash2607-del/samaaj/internal/app/features/complaints"
	departmentsfeature "github.com/yash2607-del/samaaj/internal/app/features/departments"
	healthfeature "github.com/yash2607-del/samaaj/internal/app/features/health"
	loginfeature "github.com/yash2607-del/samaaj/internal/app/features/login"
	logoutfeature "github.com/yash2607-del/samaaj/internal/app/features/logout"
	notificationsfeature "github.com/yash2607-del/samaaj/internal/app/features/notifications"
	profilefeature "github.com/yash2607-del/samaaj/internal/app/features/profile"
	signupfeature "github.com/yash2607-del/samaaj/internal/app/features/signup"
	"github.com/yash2607-del/samaaj/internal/app/policy/complaintpolicy"
	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	complaintstore "github.com/yash2607-del/samaaj/internal/app/store/complaints"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	notificationstore "github.com/yash2607-del/samaaj/internal/app/store/notifications"
	"github.com/yash2607-del/samaaj/internal/app/store/oauthstate"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/chatbot"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/app/system/notify"
	"github.com/yash2607-del/samaaj/internal/app/system/uploads"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. Samaaj builds the session
// manager, the store layer, the shared department resolver and
// visibility policy, then mounts the JSON API feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, appCfg.JWTSecret, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Store layer, one per collection.
	users := userstore.New(deps.MongoDatabase)
	citizens := citizenstore.New(deps.MongoDatabase)
	moderators := moderatorstore.New(deps.MongoDatabase)
	departments := departmentstore.New(deps.MongoDatabase)
	complaints := complaintstore.New(deps.MongoDatabase)
	notifications := notificationstore.New(deps.MongoDatabase)
	states := oauthstate.New(deps.MongoDatabase)

	resolver := deptresolve.New(moderators, departments, users, logger)

	// The unfiltered moderator fallback is a dev convenience only;
	// production fails closed when a department cannot be resolved.
	policy := complaintpolicy.New(resolver, citizens, coreCfg.Env == "dev", logger)

	notifier := notify.New(notifications, moderators, citizens, logger)

	saver, err := uploads.NewSaver(appCfg.UploadsDir, appCfg.UploadsURL, logger)
	if err != nil {
		logger.Error("upload storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the current user into context from
	// the session cookie or a bearer token.
	r.Use(sessionMgr.LoadUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded complaint photos.
	r.Handle(appCfg.UploadsURL+"/*", fileserver.Handler(appCfg.UploadsURL, appCfg.UploadsDir))

	// Authentication
	signupHandler := signupfeature.NewHandler(users, citizens, moderators, sessionMgr, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	loginHandler := loginfeature.NewHandler(users, citizens, resolver, sessionMgr, states, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	if appCfg.GoogleClientID != "" {
		r.Mount("/auth/google", loginfeature.GoogleRoutes(loginHandler))
	}

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	profileHandler := profilefeature.NewHandler(users, citizens, resolver, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	// Complaint API
	complaintsHandler := complaintsfeature.NewHandler(complaints, departments, policy, resolver, notifier, saver, logger)
	r.Mount("/api/complaints", complaintsfeature.Routes(complaintsHandler))

	// Department reference data lives under the complaint API; the
	// static "departments" segment takes precedence over the
	// {complaintID} routes in the complaints subrouter.
	departmentsHandler := departmentsfeature.NewHandler(departments, logger)
	r.Mount("/api/complaints/departments", departmentsfeature.Routes(departmentsHandler))

	notificationsHandler := notificationsfeature.NewHandler(notifications, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(notificationsHandler))

	chatbotHandler := chatbotfeature.NewHandler(chatbot.Shared(), logger)
	r.Mount("/api/chatbot", chatbotfeature.Routes(chatbotHandler))

	return r, nil
}
