package database

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    k VARCHAR(191) NOT NULL PRIMARY KEY,
    v MEDIUMTEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`
