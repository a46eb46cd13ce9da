package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Room Allocation API",
        "description": "Weekly project-room and Oasis desk allocation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Preferences", "description": "Team and Oasis preference submission"},
        {"name": "Allocations", "description": "Allocation runs, bookings and audits"}
    ],
    "paths": {
        "/preferences/teams": {
            "get": {
                "tags": ["Preferences"],
                "summary": "List team preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Preferences"],
                "summary": "Submit a team's project-room preference",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitTeamPreferenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Team already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/preferences/oasis": {
            "get": {
                "tags": ["Preferences"],
                "summary": "List Oasis preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Preferences"],
                "summary": "Submit a person's Oasis preference",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitOasisPreferenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Person already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/run": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Run the room and/or Oasis allocation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RunAllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Run finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "Another run holds the lock", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/runs/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Status of a queued allocation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown run", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/weekly": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List project-room allocations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/weekly/{id}": {
            "patch": {
                "tags": ["Allocations"],
                "summary": "Move or confirm a project-room allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWeeklyAllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown allocation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Edit would double-book a room", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Allocations"],
                "summary": "Remove a team's project-room allocation",
                "description": "Deletes both days of the team the addressed record belongs to.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown allocation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "An allocation run is in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/oasis": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List Oasis allocations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/oasis/adhoc": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Book an extra Oasis day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdhocOasisRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Day full or already booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/oasis/{id}": {
            "patch": {
                "tags": ["Allocations"],
                "summary": "Move or confirm an Oasis allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateOasisAllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown allocation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Day full or already booked by the person", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Allocations"],
                "summary": "Remove an Oasis allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Unknown allocation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "An allocation run is in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/oasis/availability": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Oasis seats left per weekday",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/validation": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Audit the stored allocations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/reset": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Archive and clear the current allocation period",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "An allocation run is in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/archive": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List archived records of past periods",
                "parameters": [
                    {"name": "kind", "in": "query", "required": true, "type": "string", "enum": ["weekly", "oasis", "team_preferences", "oasis_preferences"]},
                    {"name": "limit", "in": "query", "required": false, "type": "integer", "minimum": 0, "maximum": 5000}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown kind or bad limit", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/status": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Room catalog, Oasis capacity and last period reset",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmitTeamPreferenceRequest": {
            "type": "object",
            "properties": {
                "team_name": {"type": "string"},
                "contact_person": {"type": "string"},
                "team_size": {"type": "integer", "minimum": 3, "maximum": 6},
                "preferred_days": {"type": "string", "enum": ["Mon_Wed", "Tue_Thu"]}
            },
            "required": ["team_name", "contact_person", "team_size", "preferred_days"]
        },
        "SubmitOasisPreferenceRequest": {
            "type": "object",
            "properties": {
                "person_name": {"type": "string"},
                "preferred_days": {
                    "type": "array",
                    "minItems": 1,
                    "maxItems": 5,
                    "items": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"]}
                }
            },
            "required": ["person_name", "preferred_days"]
        },
        "RunAllocationRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["rooms", "oasis", "all"]},
                "async": {"type": "boolean"}
            }
        },
        "AdhocOasisRequest": {
            "type": "object",
            "properties": {
                "person_name": {"type": "string"},
                "day": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"]}
            },
            "required": ["person_name", "day"]
        },
        "UpdateWeeklyAllocationRequest": {
            "type": "object",
            "properties": {
                "room_name": {"type": "string"},
                "day_pair": {"type": "string", "enum": ["Mon_Wed", "Tue_Thu"]},
                "confirmed": {"type": "boolean"}
            }
        },
        "UpdateOasisAllocationRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"]},
                "confirmed": {"type": "boolean"}
            }
        },
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
                "meta": {"type": "object"}
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
