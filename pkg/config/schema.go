package config

// Schema is the JSON schema for validating configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "s3": {
            "type": "object",
            "properties": {
                "endpoint": {
                    "type": "string",
                    "description": "Object storage endpoint URL (empty for AWS default)"
                },
                "bucket": {
                    "type": "string"
                },
                "access_key": {
                    "type": "string"
                },
                "secret_key": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string",
                    "description": "Key prefix prepended to every object lookup"
                },
                "url_expiry": {
                    "type": "integer",
                    "minimum": 1,
                    "description": "Presigned URL lifetime in seconds"
                },
                "region": {
                    "type": "string"
                },
                "force_path_style": {
                    "type": "boolean"
                }
            }
        },
        "source": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string",
                    "enum": ["s3", "local", "backblaze", "ssh"]
                },
                "options": {
                    "type": "object"
                }
            },
            "required": ["type"]
        },
        "database": {
            "type": "object",
            "properties": {
                "dsn": {
                    "type": "string"
                },
                "query": {
                    "type": "string"
                }
            }
        },
        "column": {
            "type": "string"
        },
        "concurrency": {
            "type": "integer",
            "minimum": 1
        },
        "temp_dir": {
            "type": "string"
        },
        "log_level": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "log_format": {
            "type": "string",
            "enum": ["json", "console"]
        }
    }
}`
