package mysql

const shopColumns = `
  id, name, lat, lng, address, city, state, zip_code, rating, review_count,
  price, categories, description, phone, website, image_url, hours, signature_offering
`

const upsertShopSQL = `
INSERT INTO coffee_shops
  (id, name, lat, lng, address, city, state, zip_code, rating, review_count,
   price, categories, description, phone, website, image_url, hours, signature_offering)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name               = VALUES(name),
  lat                = VALUES(lat),
  lng                = VALUES(lng),
  address            = VALUES(address),
  city               = VALUES(city),
  state              = VALUES(state),
  zip_code           = VALUES(zip_code),
  rating             = VALUES(rating),
  review_count       = VALUES(review_count),
  price              = VALUES(price),
  categories         = VALUES(categories),
  description        = VALUES(description),
  phone              = VALUES(phone),
  website            = VALUES(website),
  image_url          = VALUES(image_url),
  hours              = VALUES(hours),
  signature_offering = VALUES(signature_offering),
  updated_at         = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listShopsSQL = `SELECT` + shopColumns + `FROM coffee_shops ORDER BY rating DESC, review_count DESC, id`

const getShopSQL = `SELECT` + shopColumns + `FROM coffee_shops WHERE id = ?`

// Field lookups. Keys are the only fields callers may query by.
var queryShopsSQL = map[string]string{
	"zip_code": `SELECT` + shopColumns + `FROM coffee_shops WHERE zip_code = ? ORDER BY rating DESC, review_count DESC, id`,
	"city":     `SELECT` + shopColumns + `FROM coffee_shops WHERE city LIKE CONCAT('%', ?, '%') ESCAPE '!' ORDER BY rating DESC, review_count DESC, id`,
	"state":    `SELECT` + shopColumns + `FROM coffee_shops WHERE UPPER(state) = UPPER(?) ORDER BY rating DESC, review_count DESC, id`,
	"name":     `SELECT` + shopColumns + `FROM coffee_shops WHERE name LIKE CONCAT('%', ?, '%') ESCAPE '!' ORDER BY rating DESC, review_count DESC, id`,
}

const statsTotalsSQL = `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM coffee_shops`

const statsTopRatedSQL = `SELECT` + shopColumns + `FROM coffee_shops ORDER BY rating DESC, review_count DESC, id LIMIT 5`

const statsByCitySQL = `SELECT city, COUNT(*) FROM coffee_shops GROUP BY city`

const statsByStateSQL = `SELECT state, COUNT(*) FROM coffee_shops GROUP BY state`
