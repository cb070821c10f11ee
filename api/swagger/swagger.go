package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kreditozrouti Catalog API",
        "description": "Course catalog, timetable and schedule generation service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Course search and facets"},
        {"name": "Timetable", "description": "Selection state and exports"},
        {"name": "Scheduler", "description": "Schedule generation and analysis"},
        {"name": "StudyPlans", "description": "Study plan lookups"}
    ],
    "paths": {
        "/courses/search": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Search courses",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchCoursesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/facets": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Aggregate facet counts",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Current timetable with statuses and conflicts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Empty the timetable",
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/timetable/units": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Select a unit slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddUnitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Timetable"],
                "summary": "Swap a selected slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeUnitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate slot, previous selection kept", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/units/{unitId}": {
            "delete": {
                "tags": ["Timetable"],
                "summary": "Remove every selection of a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/courses/{courseId}": {
            "delete": {
                "tags": ["Timetable"],
                "summary": "Remove every selection of a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/drag": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Normalize a grid drag into a time selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DragSelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/exclusions": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Current selection as catalog exclusion windows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export.ics": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the timetable as iCalendar",
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timetable/export.csv": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the timetable as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timetable/export.pdf": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the timetable as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate a schedule from a study plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Study plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/analyze": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Analyze a schedule for gaps and load warnings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnalyzeScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/study-plans": {
            "get": {
                "tags": ["StudyPlans"],
                "summary": "List study plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/study-plans/{id}": {
            "get": {
                "tags": ["StudyPlans"],
                "summary": "Get a study plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TimeSelection": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "date": {"type": "string"},
                "time_from": {"type": "integer"},
                "time_to": {"type": "integer"},
                "slot_id": {"type": "string"}
            }
        },
        "SearchCoursesRequest": {
            "type": "object",
            "properties": {
                "idents": {"type": "array", "items": {"type": "string"}},
                "search": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "integer"},
                "faculty": {"type": "string"},
                "lecturer": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}},
                "ectsMin": {"type": "integer"},
                "ectsMax": {"type": "integer"},
                "studyPlanId": {"type": "string"},
                "includeTimes": {"type": "array", "items": {"$ref": "#/definitions/TimeSelection"}},
                "excludeTimes": {"type": "array", "items": {"$ref": "#/definitions/TimeSelection"}},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "sort": {"type": "string"},
                "order": {"type": "string"}
            }
        },
        "AddUnitRequest": {
            "type": "object",
            "required": ["courseId", "unitId", "slotId"],
            "properties": {
                "courseId": {"type": "string"},
                "unitId": {"type": "string"},
                "slotId": {"type": "string"}
            }
        },
        "ChangeUnitRequest": {
            "type": "object",
            "required": ["courseId", "oldSlotId", "newUnitId", "newSlotId"],
            "properties": {
                "courseId": {"type": "string"},
                "oldSlotId": {"type": "string"},
                "newUnitId": {"type": "string"},
                "newSlotId": {"type": "string"}
            }
        },
        "DragSelectionRequest": {
            "type": "object",
            "required": ["day"],
            "properties": {
                "day": {"type": "string"},
                "start": {"type": "integer"},
                "end": {"type": "integer"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["studyPlanId", "semester", "year"],
            "properties": {
                "studyPlanId": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "integer"},
                "options": {"$ref": "#/definitions/GenerateOptions"}
            }
        },
        "GenerateOptions": {
            "type": "object",
            "properties": {
                "preferredDays": {"type": "array", "items": {"type": "string"}},
                "preferredTimeFrom": {"type": "integer"},
                "preferredTimeTo": {"type": "integer"},
                "maxEcts": {"type": "integer"},
                "includeElectives": {"type": "boolean"}
            }
        },
        "AnalyzeScheduleRequest": {
            "type": "object",
            "required": ["slots"],
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/ScheduleSlotPayload"}}
            }
        },
        "ScheduleSlotPayload": {
            "type": "object",
            "properties": {
                "courseIdent": {"type": "string"},
                "slotId": {"type": "string"},
                "day": {"type": "string"},
                "date": {"type": "string"},
                "timeFrom": {"type": "integer"},
                "timeTo": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
