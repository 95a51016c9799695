// Package paths names every document location the application uses.
package paths

import "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"

const (
	users        = "users"
	categories   = "categories"
	transactions = "transactions"
	todos        = "todos"
	history      = "history"
	identities   = "identities"
	auditEvents  = "audit_events"
	oauthStates  = "oauth_states"
)

func Profile(uid string) docstore.Path { return docstore.Join(users, uid) }

func Categories(uid string) docstore.Path { return docstore.Join(users, uid, categories) }

func Category(uid, id string) docstore.Path { return docstore.Join(users, uid, categories, id) }

func Transactions(uid string) docstore.Path { return docstore.Join(users, uid, transactions) }

func Transaction(uid, id string) docstore.Path {
	return docstore.Join(users, uid, transactions, id)
}

func Todos(uid string) docstore.Path { return docstore.Join(users, uid, todos) }

func Todo(uid, id string) docstore.Path { return docstore.Join(users, uid, todos, id) }

func TodoHistory(uid, taskID string) docstore.Path {
	return docstore.Join(users, uid, todos, taskID, history)
}

func Identities() docstore.Path { return docstore.Join(identities) }

func Identity(id string) docstore.Path { return docstore.Join(identities, id) }

func AuditEvents() docstore.Path { return docstore.Join(auditEvents) }

func OAuthStates() docstore.Path { return docstore.Join(oauthStates) }

func OAuthState(state string) docstore.Path { return docstore.Join(oauthStates, state) }

// OwnedCollections lists the subcollections directly under a profile.
func OwnedCollections(uid string) []docstore.Path {
	return []docstore.Path{Categories(uid), Transactions(uid), Todos(uid)}
}
