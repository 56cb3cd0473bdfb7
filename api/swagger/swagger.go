package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Licences API",
        "description": "Home detention curfew licence workflow and task lists.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Licences",
            "description": "Licence documents, handovers and task lists"
        },
        {
            "name": "Conditions",
            "description": "Additional and bespoke licence conditions"
        },
        {
            "name": "Archive",
            "description": "Rejected addresses and BASS referrals"
        },
        {
            "name": "CaseList",
            "description": "Role-specific case lists"
        },
        {
            "name": "Admin",
            "description": "Administrative operations"
        },
        {
            "name": "Observability",
            "description": "Probes and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}": {
            "get": {
                "tags": [
                    "Licences"
                ],
                "summary": "Get a licence with its classified status",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No licence",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Licences"
                ],
                "summary": "Start a licence for a booking",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateLicenceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Licence exists",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/tasks": {
            "get": {
                "tags": [
                    "Licences"
                ],
                "summary": "Task list for the caller's role",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "postRelease",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/sections/{section}/{form}": {
            "put": {
                "tags": [
                    "Licences"
                ],
                "summary": "Save answers for one licence form",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "section",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "form",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FormInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Form answers are invalid",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/vary/{form}": {
            "post": {
                "tags": [
                    "Licences"
                ],
                "summary": "Save a vary page onto a released licence",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "form",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FormInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Form answers are invalid",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/conditions": {
            "post": {
                "tags": [
                    "Conditions"
                ],
                "summary": "Merge licence conditions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConditionsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/conditions/{conditionId}": {
            "delete": {
                "tags": [
                    "Conditions"
                ],
                "summary": "Remove an additional or bespoke condition",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "conditionId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No such condition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/address/reject": {
            "post": {
                "tags": [
                    "Archive"
                ],
                "summary": "Archive the proposed curfew address",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RejectAddressRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/address/reinstate": {
            "post": {
                "tags": [
                    "Archive"
                ],
                "summary": "Restore the last archived address",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Nothing to reinstate",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/bass/reject": {
            "post": {
                "tags": [
                    "Archive"
                ],
                "summary": "Archive the BASS referral as rejected",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RejectBassRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/bass/withdraw": {
            "post": {
                "tags": [
                    "Archive"
                ],
                "summary": "Archive the BASS referral as withdrawn",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/WithdrawBassRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/bass/reinstate": {
            "post": {
                "tags": [
                    "Archive"
                ],
                "summary": "Restore the last archived BASS referral",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Nothing to reinstate",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/handover": {
            "post": {
                "tags": [
                    "Licences"
                ],
                "summary": "Send the licence to the next role",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/HandoverRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Role does not own the transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/template": {
            "post": {
                "tags": [
                    "Licences"
                ],
                "summary": "Select the licence template",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TemplateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Form answers are invalid",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/decision": {
            "delete": {
                "tags": [
                    "Licences"
                ],
                "summary": "Withdraw the approval decision",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/changes": {
            "get": {
                "tags": [
                    "Licences"
                ],
                "summary": "Diff against the approved version",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No approved version",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/licences/{bookingId}/validation": {
            "get": {
                "tags": [
                    "Licences"
                ],
                "summary": "Validate the licence against a form group",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "bookingId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "group",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/caselist": {
            "get": {
                "tags": [
                    "CaseList"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Cases needing the caller's attention",
                "parameters": [
                    {
                        "name": "tab",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "active",
                            "inactive"
                        ]
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/caselist/export": {
            "get": {
                "tags": [
                    "CaseList"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Download the case list",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "tab",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "active",
                            "inactive"
                        ]
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    }
                }
            }
        },
        "/api/v1/admin/licences": {
            "delete": {
                "tags": [
                    "Admin"
                ],
                "summary": "Delete every licence",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    }
                }
            }
        },
        "/api/v1/admin/status": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "Workflow and cache counters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateLicenceRequest": {
            "type": "object",
            "properties": {
                "stage": {
                    "type": "string",
                    "enum": [
                        "UNSTARTED",
                        "ELIGIBILITY",
                        "PROCESSING_RO",
                        "PROCESSING_CA",
                        "APPROVAL",
                        "DECIDED",
                        "MODIFIED",
                        "MODIFIED_APPROVAL",
                        "VARY"
                    ]
                },
                "licence": {
                    "type": "object"
                }
            }
        },
        "FormInput": {
            "type": "object",
            "properties": {
                "answers": {
                    "type": "object"
                },
                "postRelease": {
                    "type": "boolean"
                }
            },
            "required": [
                "answers"
            ]
        },
        "ConditionsRequest": {
            "type": "object",
            "properties": {
                "conditions": {
                    "type": "object"
                },
                "postRelease": {
                    "type": "boolean"
                }
            },
            "required": [
                "conditions"
            ]
        },
        "RejectAddressRequest": {
            "type": "object",
            "properties": {
                "withdrawalReason": {
                    "type": "string"
                }
            }
        },
        "RejectBassRequest": {
            "type": "object",
            "properties": {
                "bassRequested": {
                    "type": "string",
                    "enum": [
                        "Yes",
                        "No"
                    ]
                },
                "reason": {
                    "type": "string"
                }
            },
            "required": [
                "bassRequested"
            ]
        },
        "WithdrawBassRequest": {
            "type": "object",
            "properties": {
                "withdrawal": {
                    "type": "string",
                    "enum": [
                        "offer",
                        "request"
                    ]
                }
            },
            "required": [
                "withdrawal"
            ]
        },
        "HandoverRequest": {
            "type": "object",
            "properties": {
                "transitionType": {
                    "type": "string",
                    "enum": [
                        "caToRo",
                        "caToDm",
                        "caToDmRefusal",
                        "caToDmResubmit",
                        "roToCa",
                        "roToCaAddressRejected",
                        "roToCaOptedOut",
                        "dmToCa",
                        "dmToCaReturn"
                    ]
                }
            },
            "required": [
                "transitionType"
            ]
        },
        "TemplateRequest": {
            "type": "object",
            "properties": {
                "decision": {
                    "type": "string"
                },
                "offenceCommittedBefore": {
                    "type": "string"
                },
                "postRelease": {
                    "type": "boolean"
                }
            },
            "required": [
                "decision"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
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
