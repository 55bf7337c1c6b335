package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RC Table Editor API",
        "description": "Draft, review and submit changes to the RC session table.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
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
            "name": "TableData"
        },
        {
            "name": "Filters"
        },
        {
            "name": "Drafts"
        },
        {
            "name": "Review"
        },
        {
            "name": "Submission"
        },
        {
            "name": "History"
        }
    ],
    "paths": {
        "/tabledata/query": {
            "post": {
                "tags": [
                    "TableData"
                ],
                "summary": "Create a batch from the source table",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/QueryBatchRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/tabledata/import": {
            "post": {
                "tags": [
                    "TableData"
                ],
                "summary": "Create a batch from an uploaded workbook",
                "parameters": [
                    {
                        "name": "file",
                        "in": "formData",
                        "required": true,
                        "type": "file"
                    },
                    {
                        "name": "username",
                        "in": "formData",
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "413": {
                        "description": "Payload too large",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/tabledata/{batchId}": {
            "get": {
                "tags": [
                    "TableData"
                ],
                "summary": "List a batch's base rows",
                "parameters": [
                    {
                        "name": "batchId",
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
                    }
                }
            }
        },
        "/tabledata/export/{batchId}": {
            "get": {
                "tags": [
                    "TableData"
                ],
                "summary": "Download a batch",
                "parameters": [
                    {
                        "name": "batchId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "view",
                        "in": "query",
                        "type": "string",
                        "description": "original or effective"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "xlsx, csv or pdf"
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
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/process": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "List processes",
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
        "/filters/layers/{process}": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "List layers of a process",
                "parameters": [
                    {
                        "name": "process",
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
                    }
                }
            }
        },
        "/filters/operations/{process}/{layer}": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "List operations of a process and layer",
                "parameters": [
                    {
                        "name": "process",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "layer",
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
                    }
                }
            }
        },
        "/drafts/{batchId}": {
            "get": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Load the active draft of a batch",
                "parameters": [
                    {
                        "name": "batchId",
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
                    }
                }
            },
            "post": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Replace the draft of a batch",
                "parameters": [
                    {
                        "name": "batchId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveDraftRequest"
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
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Discard the draft of a batch",
                "parameters": [
                    {
                        "name": "batchId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/drafts/{batchId}/changes": {
            "post": {
                "tags": [
                    "Drafts"
                ],
                "summary": "Reconcile incoming changes into the draft of a batch",
                "parameters": [
                    {
                        "name": "batchId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveDraftRequest"
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
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/review/{batchId}": {
            "get": {
                "tags": [
                    "Review"
                ],
                "summary": "Compare base rows with the drafted result",
                "parameters": [
                    {
                        "name": "batchId",
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
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/submit/{id}": {
            "post": {
                "tags": [
                    "Submission"
                ],
                "summary": "Submit the draft of a batch",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/SubmitRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/submit/{id}/status": {
            "get": {
                "tags": [
                    "Submission"
                ],
                "summary": "Approval status of a submission",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Change ID"
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
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/history": {
            "get": {
                "tags": [
                    "History"
                ],
                "summary": "List submissions",
                "parameters": [
                    {
                        "name": "process",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Pending, Approved or Rejected"
                    },
                    {
                        "name": "fromDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "name": "toDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD (inclusive)"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
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
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/history/{changeId}": {
            "get": {
                "tags": [
                    "History"
                ],
                "summary": "Submission record with its details",
                "parameters": [
                    {
                        "name": "changeId",
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
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/history/{changeId}/excel": {
            "get": {
                "tags": [
                    "History"
                ],
                "summary": "Download link of a submission workbook",
                "parameters": [
                    {
                        "name": "changeId",
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
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
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
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "Row": {
            "type": "object",
            "properties": {
                "rowId": {
                    "type": "integer"
                },
                "process": {
                    "type": "string"
                },
                "layer": {
                    "type": "string"
                },
                "defectType": {
                    "type": "string"
                },
                "operationList": {
                    "type": "string"
                },
                "classType": {
                    "type": "string"
                },
                "product": {
                    "type": "string"
                },
                "entityConfidence": {
                    "type": "integer"
                },
                "comments": {
                    "type": "string"
                },
                "genericData1": {
                    "type": "string"
                },
                "genericData2": {
                    "type": "string"
                },
                "genericData3": {
                    "type": "string"
                },
                "ediAttribution": {
                    "type": "string"
                },
                "ediAttributionList": {
                    "type": "string"
                },
                "securityCode": {
                    "type": "integer"
                },
                "originalId": {
                    "type": "integer"
                },
                "lastModified": {
                    "type": "string"
                },
                "lastModifiedBy": {
                    "type": "string"
                }
            }
        },
        "Change": {
            "type": "object",
            "properties": {
                "changeType": {
                    "type": "string",
                    "enum": [
                        "Add",
                        "Edit",
                        "Remove"
                    ]
                },
                "targetRowId": {
                    "type": "integer"
                },
                "originalData": {
                    "$ref": "#/definitions/Row"
                },
                "newData": {
                    "$ref": "#/definitions/Row"
                },
                "modifiedFields": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "QueryBatchRequest": {
            "type": "object",
            "required": [
                "process",
                "layer"
            ],
            "properties": {
                "process": {
                    "type": "string"
                },
                "layer": {
                    "type": "string"
                },
                "operation": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "SaveDraftRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "changes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Change"
                    }
                }
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
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
