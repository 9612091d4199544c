package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniFlow API",
        "description": "University weekly schedule, template and mark management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Terms", "description": "Academic term dictionary"},
        {"name": "Subjects", "description": "Subject dictionary"},
        {"name": "StudyGroups", "description": "Study group dictionary"},
        {"name": "Templates", "description": "Recurring weekly schedule templates"},
        {"name": "Schedules", "description": "Materialized weekly schedule"},
        {"name": "Marks", "description": "Per-session student marks"},
        {"name": "Users", "description": "Accounts and student profiles"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current authenticated user",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/terms": {
            "get": {"tags": ["Terms"], "summary": "List terms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Terms"], "summary": "Create term", "responses": {"201": {"description": "Created"}, "409": {"description": "Name taken or active overlap"}}}
        },
        "/terms/{id}": {
            "get": {"tags": ["Terms"], "summary": "Get term", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Terms"], "summary": "Update term", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Terms"], "summary": "Delete term", "responses": {"204": {"description": "Deleted"}}}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "responses": {"201": {"description": "Created"}}}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Subjects"], "summary": "Update subject", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject", "responses": {"204": {"description": "Deleted"}}}
        },
        "/study-groups": {
            "get": {"tags": ["StudyGroups"], "summary": "List study groups", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["StudyGroups"], "summary": "Create study group", "responses": {"201": {"description": "Created"}}}
        },
        "/study-groups/{id}": {
            "get": {"tags": ["StudyGroups"], "summary": "Get study group", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["StudyGroups"], "summary": "Update study group", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["StudyGroups"], "summary": "Delete study group", "responses": {"204": {"description": "Deleted"}}}
        },
        "/study-groups/{id}/members": {
            "get": {"tags": ["StudyGroups"], "summary": "List group members", "responses": {"200": {"description": "OK"}}}
        },
        "/schedule-templates": {
            "get": {"tags": ["Templates"], "summary": "Weekly template grid", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Templates"], "summary": "Create template slot", "responses": {"201": {"description": "Created"}, "409": {"description": "Slot occupied"}}}
        },
        "/schedule-templates/{id}": {
            "get": {"tags": ["Templates"], "summary": "Get template slot", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Templates"], "summary": "Change slot subject", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Templates"], "summary": "Delete template slot", "responses": {"204": {"description": "Deleted"}}}
        },
        "/schedules": {
            "get": {"tags": ["Schedules"], "summary": "Weekly schedule grid", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Schedules"], "summary": "Create schedule entry", "responses": {"201": {"description": "Created"}}}
        },
        "/schedules/fill": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Materialize a week from the template",
                "responses": {
                    "201": {"description": "Week filled"},
                    "400": {"description": "Missing parameters"},
                    "409": {"description": "Already filled, no term or no template"}
                }
            }
        },
        "/schedules/export": {
            "get": {"tags": ["Schedules"], "summary": "Export weekly grid as CSV or PDF", "responses": {"200": {"description": "File"}}}
        },
        "/schedules/{id}": {
            "get": {"tags": ["Schedules"], "summary": "Get schedule entry", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Schedules"], "summary": "Update schedule entry", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Schedules"], "summary": "Delete schedule entry", "responses": {"204": {"description": "Deleted"}}}
        },
        "/schedules/{id}/marks": {
            "get": {"tags": ["Marks"], "summary": "List session marks", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Marks"], "summary": "Record a mark", "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate mark"}}}
        },
        "/marks/{markId}": {
            "put": {"tags": ["Marks"], "summary": "Change mark value", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Marks"], "summary": "Delete mark", "responses": {"204": {"description": "Deleted"}}}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users", "responses": {"200": {"description": "OK"}}}
        },
        "/users/{id}/profile": {
            "get": {"tags": ["Users"], "summary": "Get user profile", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Users"], "summary": "Assign study group", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
