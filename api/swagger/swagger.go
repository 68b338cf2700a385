package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Platform Admin API",
        "description": "Draft-based editing API for schedules and teacher assignments",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule Editor", "description": "Per-class schedule drafting and publishing"},
        {"name": "Assignment Editor", "description": "Multi-teacher assignment drafting and batch publishing"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/schedule-editor/classes/{classId}": {
            "post": {
                "tags": ["Schedule Editor"],
                "summary": "Open a schedule editing session for a class and year",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule Editor"],
                "summary": "Close the session, dropping unpublished changes",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedule-editor/classes/{classId}/grid": {
            "get": {
                "tags": ["Schedule Editor"],
                "summary": "Merged baseline plus draft grid",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-editor/classes/{classId}/slots": {
            "put": {
                "tags": ["Schedule Editor"],
                "summary": "Stage a slot edit",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StageSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule Editor"],
                "summary": "Stage a slot deletion",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRefRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-editor/classes/{classId}/slots/revert": {
            "post": {
                "tags": ["Schedule Editor"],
                "summary": "Revert one staged slot to its baseline",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRefRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-editor/classes/{classId}/changes": {
            "get": {
                "tags": ["Schedule Editor"],
                "summary": "Staged entries for the session",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-editor/classes/{classId}/discard": {
            "post": {
                "tags": ["Schedule Editor"],
                "summary": "Discard every staged change",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-editor/classes/{classId}/publish": {
            "post": {
                "tags": ["Schedule Editor"],
                "summary": "Publish staged changes as one batch",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Publish already in progress"},
                    "502": {"description": "Publish rejected by persistence"}
                }
            }
        },
        "/assignment-editor/sessions/{sid}": {
            "delete": {
                "tags": ["Assignment Editor"],
                "summary": "End the editing session, dropping all drafts",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/teachers/{tid}": {
            "post": {
                "tags": ["Assignment Editor"],
                "summary": "Load a teacher into the editing session",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Assignment Editor"],
                "summary": "Current draft values for an open teacher",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assignment Editor"],
                "summary": "Drop a teacher's draft from the session",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/teachers/{tid}/subjects": {
            "put": {
                "tags": ["Assignment Editor"],
                "summary": "Replace the drafted subject set",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetSubjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/teachers/{tid}/grade-levels": {
            "put": {
                "tags": ["Assignment Editor"],
                "summary": "Replace drafted grade levels",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetGradeLevelsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/teachers/{tid}/classes/{grade}": {
            "put": {
                "tags": ["Assignment Editor"],
                "summary": "Replace the class selection for one grade",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "tid", "in": "path", "required": true, "type": "string"},
                    {"name": "grade", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetClassesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Grade not selected"}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/changes": {
            "get": {
                "tags": ["Assignment Editor"],
                "summary": "Per-teacher dirty state",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/publish": {
            "post": {
                "tags": ["Assignment Editor"],
                "summary": "Publish every dirty teacher as one batch",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Publish already in progress"},
                    "502": {"description": "Publish rejected by persistence"}
                }
            }
        },
        "/assignment-editor/sessions/{sid}/discard": {
            "post": {
                "tags": ["Assignment Editor"],
                "summary": "Reset every draft to its baseline",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-editor/reference/teachers/{tid}/candidates": {
            "get": {
                "tags": ["Assignment Editor"],
                "summary": "Subjects a teacher may be scheduled for",
                "parameters": [
                    {"name": "tid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-editor/reference/classes": {
            "get": {
                "tags": ["Assignment Editor"],
                "summary": "Global class roster grouped by grade",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduleSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "class_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "period_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "teacher_name": {"type": "string"},
                "subject_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "room_number": {"type": "string"},
                "academic_year": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "StageSlotRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "string"},
                "period_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "room_number": {"type": "string"}
            },
            "required": ["day_of_week", "period_id", "teacher_id", "subject_id"]
        },
        "SlotRefRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "string"},
                "period_id": {"type": "string"}
            },
            "required": ["day_of_week", "period_id"]
        },
        "SetSubjectsRequest": {
            "type": "object",
            "properties": {
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SetGradeLevelsRequest": {
            "type": "object",
            "properties": {
                "grade_levels": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SetClassesRequest": {
            "type": "object",
            "properties": {
                "class_ids": {"type": "array", "items": {"type": "string"}}
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
